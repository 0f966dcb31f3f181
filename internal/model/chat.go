package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoom is the coordination channel between a donor and a patient,
// one-to-one with a donation. Opened on acceptance, closed when the blood
// test is submitted or the donation completes.
type ChatRoom struct {
	Base
	DonorID    uuid.UUID `db:"donor_id" json:"donor_id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	DonationID uuid.UUID `db:"donation_id" json:"donation_id"`
	IsActive   bool      `db:"is_active" json:"is_active"`
}

// Member reports whether the given person belongs to this room.
func (r *ChatRoom) Member(personID uuid.UUID) bool {
	return r.DonorID == personID || r.PatientID == personID
}

type Message struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ChatRoomID uuid.UUID `db:"chat_room_id" json:"chat_room_id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

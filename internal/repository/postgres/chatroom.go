package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
)

type chatRoomRepository struct {
	db *sqlx.DB
}

func NewChatRoomRepository(db *sqlx.DB) repository.ChatRoomRepository {
	return &chatRoomRepository{db: db}
}

func (r *chatRoomRepository) GetOrCreate(ctx context.Context, room *model.ChatRoom) (*model.ChatRoom, bool, error) {
	existing, err := r.GetByDonation(ctx, room.DonationID)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.IsCode(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	query := `
		INSERT INTO chat_rooms (
			id, donor_id, patient_id, donation_id, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	room.ID = uuid.New()
	room.IsActive = true
	room.CreatedAt = time.Now()
	room.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		room.ID,
		room.DonorID,
		room.PatientID,
		room.DonationID,
		room.IsActive,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create chat room: %w", err)
	}
	return room, true, nil
}

func (r *chatRoomRepository) Get(ctx context.Context, id uuid.UUID) (*model.ChatRoom, error) {
	query := `
		SELECT id, donor_id, patient_id, donation_id, is_active, created_at, updated_at
		FROM chat_rooms
		WHERE id = $1
	`
	var room model.ChatRoom
	err := r.db.GetContext(ctx, &room, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("chat room", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat room: %w", err)
	}
	return &room, nil
}

func (r *chatRoomRepository) GetByDonation(ctx context.Context, donationID uuid.UUID) (*model.ChatRoom, error) {
	query := `
		SELECT id, donor_id, patient_id, donation_id, is_active, created_at, updated_at
		FROM chat_rooms
		WHERE donation_id = $1
	`
	var room model.ChatRoom
	err := r.db.GetContext(ctx, &room, query, donationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("chat room", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat room by donation: %w", err)
	}
	return &room, nil
}

func (r *chatRoomRepository) Deactivate(ctx context.Context, donationID uuid.UUID) error {
	query := `
		UPDATE chat_rooms
		SET is_active = FALSE, updated_at = $1
		WHERE donation_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, time.Now(), donationID)
	if err != nil {
		return fmt.Errorf("failed to deactivate chat room: %w", err)
	}
	return nil
}

func (r *chatRoomRepository) ListForPerson(ctx context.Context, personID uuid.UUID) ([]*model.ChatRoom, error) {
	query := `
		SELECT id, donor_id, patient_id, donation_id, is_active, created_at, updated_at
		FROM chat_rooms
		WHERE donor_id = $1 OR patient_id = $1
		ORDER BY created_at DESC
	`
	var rooms []*model.ChatRoom
	err := r.db.SelectContext(ctx, &rooms, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat rooms: %w", err)
	}
	return rooms, nil
}

func (r *chatRoomRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (id, chat_room_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.ChatRoomID,
		msg.SenderID,
		msg.Content,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *chatRoomRepository) ListMessages(ctx context.Context, roomID uuid.UUID) ([]*model.Message, error) {
	query := `
		SELECT id, chat_room_id, sender_id, content, created_at
		FROM messages
		WHERE chat_room_id = $1
		ORDER BY created_at ASC
	`
	var messages []*model.Message
	err := r.db.SelectContext(ctx, &messages, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

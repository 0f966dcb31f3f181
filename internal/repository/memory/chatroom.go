package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

type chatRoomRepo struct {
	s *Store
}

func (r *chatRoomRepo) GetOrCreate(ctx context.Context, room *model.ChatRoom) (*model.ChatRoom, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.chatRooms {
		if existing.DonationID == room.DonationID {
			cp := existing
			return &cp, false, nil
		}
	}
	stamp(&room.Base)
	room.IsActive = true
	r.s.chatRooms[room.ID] = *room
	return room, true, nil
}

func (r *chatRoomRepo) Get(ctx context.Context, id uuid.UUID) (*model.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room, ok := r.s.chatRooms[id]
	if !ok {
		return nil, apperrors.NotFound("chat room", nil)
	}
	return &room, nil
}

func (r *chatRoomRepo) GetByDonation(ctx context.Context, donationID uuid.UUID) (*model.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, room := range r.s.chatRooms {
		if room.DonationID == donationID {
			cp := room
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("chat room", nil)
}

func (r *chatRoomRepo) Deactivate(ctx context.Context, donationID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, room := range r.s.chatRooms {
		if room.DonationID == donationID {
			room.IsActive = false
			room.UpdatedAt = time.Now()
			r.s.chatRooms[id] = room
		}
	}
	return nil
}

func (r *chatRoomRepo) ListForPerson(ctx context.Context, personID uuid.UUID) ([]*model.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.ChatRoom
	for _, room := range r.s.chatRooms {
		if room.DonorID != personID && room.PatientID != personID {
			continue
		}
		cp := room
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *chatRoomRepo) CreateMessage(ctx context.Context, msg *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.chatRooms[msg.ChatRoomID]; !ok {
		return apperrors.NotFound("chat room", nil)
	}
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	r.s.messages[msg.ChatRoomID] = append(r.s.messages[msg.ChatRoomID], *msg)
	return nil
}

func (r *chatRoomRepo) ListMessages(ctx context.Context, roomID uuid.UUID) ([]*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msgs := r.s.messages[roomID]
	out := make([]*model.Message, 0, len(msgs))
	for i := range msgs {
		cp := msgs[i]
		out = append(out, &cp)
	}
	return out, nil
}

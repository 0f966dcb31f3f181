package chat

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"
	"github.com/projectred/donor-api/pkg/logger"
	"github.com/projectred/donor-api/pkg/messaging"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
)

// Service guards chat room access: only the two members of a room may
// read or write it, and messages only land in active rooms. New messages
// are additionally pushed over the broker for live clients.
type Service struct {
	rooms  repository.ChatRoomRepository
	broker messaging.Broker
	logger *logger.Logger
}

func NewService(rooms repository.ChatRoomRepository, broker messaging.Broker, log *logger.Logger) *Service {
	return &Service{rooms: rooms, broker: broker, logger: log}
}

func (s *Service) ListRooms(ctx context.Context, personID uuid.UUID) ([]*model.ChatRoom, error) {
	return s.rooms.ListForPerson(ctx, personID)
}

func (s *Service) GetRoom(ctx context.Context, personID, roomID uuid.UUID) (*model.ChatRoom, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Member(personID) {
		return nil, apperrors.Forbidden("not a member of this chat room", nil)
	}
	return room, nil
}

func (s *Service) SendMessage(ctx context.Context, personID, roomID uuid.UUID, req *model.SendMessageRequest) (*model.Message, error) {
	room, err := s.GetRoom(ctx, personID, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, apperrors.Conflict("chat room is closed", nil)
	}

	msg := &model.Message{
		ChatRoomID: roomID,
		SenderID:   personID,
		Content:    req.Content,
	}
	if err := s.rooms.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.broker != nil {
		channel := "chat:" + roomID.String()
		if err := s.broker.Publish(ctx, channel, msg); err != nil && s.logger != nil {
			s.logger.Error(err, "failed to publish chat message", "channel", channel)
		}
	}
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, personID, roomID uuid.UUID) ([]*model.Message, error) {
	if _, err := s.GetRoom(ctx, personID, roomID); err != nil {
		return nil, err
	}
	return s.rooms.ListMessages(ctx, roomID)
}

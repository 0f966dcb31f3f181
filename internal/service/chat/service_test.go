package chat

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository/memory"
)

func seedRoom(t *testing.T, store *memory.Store) (*model.ChatRoom, uuid.UUID, uuid.UUID) {
	t.Helper()
	donorID, patientID := uuid.New(), uuid.New()
	room, created, err := store.ChatRooms().GetOrCreate(context.Background(), &model.ChatRoom{
		DonorID:    donorID,
		PatientID:  patientID,
		DonationID: uuid.New(),
	})
	require.NoError(t, err)
	require.True(t, created)
	return room, donorID, patientID
}

func TestSendAndListMessages(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.ChatRooms(), nil, nil)
	room, donorID, patientID := seedRoom(t, store)

	_, err := svc.SendMessage(context.Background(), donorID, room.ID, &model.SendMessageRequest{Content: "I can donate tomorrow"})
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), patientID, room.ID, &model.SendMessageRequest{Content: "Thank you!"})
	require.NoError(t, err)

	msgs, err := svc.ListMessages(context.Background(), donorID, room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "I can donate tomorrow", msgs[0].Content)
	assert.Equal(t, donorID, msgs[0].SenderID)
}

func TestNonMemberForbidden(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.ChatRooms(), nil, nil)
	room, _, _ := seedRoom(t, store)

	stranger := uuid.New()
	_, err := svc.SendMessage(context.Background(), stranger, room.ID, &model.SendMessageRequest{Content: "hi"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	_, err = svc.ListMessages(context.Background(), stranger, room.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestClosedRoomRejectsMessages(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.ChatRooms(), nil, nil)
	room, donorID, _ := seedRoom(t, store)

	require.NoError(t, store.ChatRooms().Deactivate(context.Background(), room.DonationID))

	_, err := svc.SendMessage(context.Background(), donorID, room.ID, &model.SendMessageRequest{Content: "late"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))

	// History stays readable after the room closes.
	_, err = svc.ListMessages(context.Background(), donorID, room.ID)
	require.NoError(t, err)
}

func TestListRooms(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.ChatRooms(), nil, nil)
	_, donorID, _ := seedRoom(t, store)
	seedRoom(t, store)

	rooms, err := svc.ListRooms(context.Background(), donorID)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository/memory"
)

func TestEmitAndList(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Notifications(), nil, nil, nil)

	userID := uuid.New()
	err := svc.Emit(context.Background(), userID, model.NotificationBloodRequest, "Blood needed", "A+ needed nearby", nil)
	require.NoError(t, err)

	got, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationBloodRequest, got[0].Type)
	assert.False(t, got[0].IsRead)
}

func TestEmitLifeSaved_AtMostOnce(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Notifications(), nil, nil, nil)

	donorID := uuid.New()
	donationID := uuid.New()

	emitted, err := svc.EmitLifeSaved(context.Background(), donorID, donationID)
	require.NoError(t, err)
	assert.True(t, emitted)

	// Second attempt for the same donation is a no-op.
	emitted, err = svc.EmitLifeSaved(context.Background(), donorID, donationID)
	require.NoError(t, err)
	assert.False(t, emitted)

	got, err := svc.ListForUser(context.Background(), donorID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// A different donation gets its own notification.
	emitted, err = svc.EmitLifeSaved(context.Background(), donorID, uuid.New())
	require.NoError(t, err)
	assert.True(t, emitted)
}

func TestMarkRead(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Notifications(), nil, nil, nil)

	userID := uuid.New()
	require.NoError(t, svc.Emit(context.Background(), userID, model.NotificationHealthAlert, "Health alert", "check your results", nil))
	require.NoError(t, svc.Emit(context.Background(), userID, model.NotificationHealthAlert, "Health alert", "check your results", nil))

	got, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NoError(t, svc.MarkRead(context.Background(), got[0].ID))

	got, err = svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	read := 0
	for _, n := range got {
		if n.IsRead {
			read++
		}
	}
	assert.Equal(t, 1, read)

	require.NoError(t, svc.MarkAllRead(context.Background(), userID))
	got, err = svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	for _, n := range got {
		assert.True(t, n.IsRead)
	}
}

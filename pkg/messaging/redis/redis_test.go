package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBroker(t *testing.T) *Broker {
	t.Helper()
	mr := miniredis.RunT(t)
	broker, err := NewBroker(Config{URL: "redis://" + mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })
	return broker.(*Broker)
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	broker := newTestBroker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := broker.Subscribe(ctx, "notifications")
	require.NoError(t, err)

	// Give the subscriber goroutine a moment to attach.
	time.Sleep(50 * time.Millisecond)

	payload := map[string]string{"type": "donation_accepted", "title": "Blood Request Accepted"}
	require.NoError(t, broker.Publish(ctx, "notifications", payload))

	select {
	case raw := <-msgs:
		var got map[string]string
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, payload, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestPublishRejectsUnmarshalable(t *testing.T) {
	broker := newTestBroker(t)
	err := broker.Publish(context.Background(), "notifications", make(chan int))
	assert.Error(t, err)
}

package messaging

import (
	"context"
)

// Broker is the pub/sub transport used to push in-app notifications to
// connected clients. Delivery is fire-and-forget from the core's
// perspective; nothing reads the publish result beyond logging.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

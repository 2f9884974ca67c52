package queue

import (
	"context"
)

const (
	// WorkQueue carries notification creation events to the fan-out worker.
	WorkQueue = "push.fanout"

	// DLQ receives creation events rejected as malformed.
	DLQ = "dlq.push.fanout"
)

// Publisher publishes notification creation events to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, msg NotificationCreatedMessage) error
	Close() error
}

// MessageHandler handles a consumed queue message.
type MessageHandler func(ctx context.Context, msg NotificationCreatedMessage) error

// Consumer consumes notification creation events from a queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler MessageHandler) error
	Close() error
}

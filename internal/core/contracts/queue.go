package contracts

import "context"

// NotificationQueue is the outbound job channel. Publishing is
// fire-and-forget from the caller's perspective; delivery retries are the
// consumer's concern.
type NotificationQueue interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe starts a consumer-group read loop for the topic and invokes
	// handler for each message. It returns once the loop is running.
	Subscribe(ctx context.Context, topic, group string, handler func(ctx context.Context, messageID string, data []byte) error) error
	Acknowledge(ctx context.Context, topic, group, messageID string) error
	DeleteMessage(ctx context.Context, topic, messageID string) error
}

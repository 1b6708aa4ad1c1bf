package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// pendingMinIdle is how long an entry must sit unacked before another
// consumer may claim it. Long enough that a slow sendgrid call does not get
// the job processed twice.
const pendingMinIdle = time.Minute

// RedisNotificationQueue is the outbound job channel backed by a redis
// stream with consumer groups.
type RedisNotificationQueue struct {
	rdb *redis.Client
	log *slog.Logger
}

func NewRedisNotificationQueue(log *slog.Logger, rdb *redis.Client) *RedisNotificationQueue {
	return &RedisNotificationQueue{rdb: rdb, log: log}
}

func (q *RedisNotificationQueue) Publish(ctx context.Context, topic string, payload []byte) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		MaxLen: 1000,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"data": payload},
	}).Err()
}

// Subscribe consumes the topic until ctx is cancelled. Each pass first claims
// entries another consumer left pending past pendingMinIdle, then blocks on
// new entries. Entries the handler fails on stay pending and come back
// through the claim pass.
func (q *RedisNotificationQueue) Subscribe(
	ctx context.Context,
	topic string,
	group string,
	handler func(ctx context.Context, messageID string, data []byte) error,
) error {
	// Create group if not exists
	err := q.rdb.XGroupCreateMkStream(ctx, topic, group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	consumerName := uuid.NewString()
	go func() {
		claimStart := "0-0"
		for {
			select {
			case <-ctx.Done():
				return
			default:
				claimStart = q.claimPending(ctx, topic, group, consumerName, claimStart, handler)

				// Read new messages (">")
				res, err := q.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
					Group:    group,
					Consumer: consumerName,
					Streams:  []string{topic, ">"},
					Count:    1,
					Block:    2 * time.Second,
				}).Result()
				if err != nil {
					if err != redis.Nil && ctx.Err() == nil {
						q.log.Error("queue - stream read failed", "topic", topic, "error", err)
					}
					continue
				}
				for _, stream := range res {
					q.dispatch(ctx, topic, stream.Messages, handler)
				}
			}
		}
	}()
	return nil
}

// claimPending transfers entries pending past pendingMinIdle to this
// consumer and runs them through the handler. Returns the cursor for the
// next pass; "0-0" restarts the scan once the pending list is exhausted.
func (q *RedisNotificationQueue) claimPending(
	ctx context.Context,
	topic, group, consumer, start string,
	handler func(ctx context.Context, messageID string, data []byte) error,
) string {
	msgs, next, err := q.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   topic,
		Group:    group,
		Consumer: consumer,
		MinIdle:  pendingMinIdle,
		Start:    start,
		Count:    10,
	}).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			q.log.Error("queue - pending claim failed", "topic", topic, "error", err)
		}
		return "0-0"
	}
	q.dispatch(ctx, topic, msgs, handler)
	return next
}

func (q *RedisNotificationQueue) dispatch(
	ctx context.Context,
	topic string,
	msgs []redis.XMessage,
	handler func(ctx context.Context, messageID string, data []byte) error,
) {
	for _, msg := range msgs {
		raw, ok := msg.Values["data"].(string)
		if !ok {
			continue
		}
		if err := handler(ctx, msg.ID, []byte(raw)); err != nil {
			q.log.ErrorContext(ctx, "queue - handler failed", "topic", topic, "message_id", msg.ID, "error", err)
		}
	}
}

func (q *RedisNotificationQueue) Acknowledge(ctx context.Context, topic, group, messageID string) error {
	return q.rdb.XAck(ctx, topic, group, messageID).Err()
}

func (q *RedisNotificationQueue) DeleteMessage(ctx context.Context, topic, messageID string) error {
	return q.rdb.XDel(ctx, topic, messageID).Err()
}

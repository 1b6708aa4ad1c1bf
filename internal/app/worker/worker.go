package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Shubham-rawat0/chatApp/internal/core/contracts"
	"github.com/Shubham-rawat0/chatApp/internal/core/services"
)

// WelcomeWorker drains the welcome notification stream and sends the mail.
// A failed send leaves the message unacknowledged so the group redelivers it.
type WelcomeWorker struct {
	log    *slog.Logger
	queue  contracts.NotificationQueue
	mailer contracts.Mailer
	topic  string
	group  string
}

func NewWelcomeWorker(
	log *slog.Logger,
	queue contracts.NotificationQueue,
	mailer contracts.Mailer,
	topic string,
	group string,
) *WelcomeWorker {
	return &WelcomeWorker{
		log:    log,
		queue:  queue,
		mailer: mailer,
		topic:  topic,
		group:  group,
	}
}

func (w *WelcomeWorker) Run(ctx context.Context) error {
	if err := w.queue.Subscribe(ctx, w.topic, w.group, w.Process); err != nil {
		return err
	}
	w.log.InfoContext(ctx, "worker - subscribed", "topic", w.topic, "group", w.group)
	return nil
}

func (w *WelcomeWorker) Process(ctx context.Context, messageID string, raw []byte) error {
	var job services.WelcomeJob
	if err := json.Unmarshal(raw, &job); err != nil {
		// A frame that never parses would redeliver forever; ack and drop it.
		w.log.ErrorContext(ctx, "worker - malformed welcome job", "message_id", messageID, "error", err)
		return w.ack(ctx, messageID)
	}
	if err := w.mailer.SendWelcome(ctx, job.Email, job.Name); err != nil {
		w.log.ErrorContext(ctx, "worker - welcome mail failed", "message_id", messageID, "email", job.Email, "error", err)
		return err
	}
	w.log.InfoContext(ctx, "worker - welcome mail sent", "message_id", messageID, "email", job.Email)
	return w.ack(ctx, messageID)
}

func (w *WelcomeWorker) ack(ctx context.Context, messageID string) error {
	if err := w.queue.Acknowledge(ctx, w.topic, w.group, messageID); err != nil {
		w.log.ErrorContext(ctx, "worker - acknowledge failed", "message_id", messageID, "error", err)
		return err
	}
	if err := w.queue.DeleteMessage(ctx, w.topic, messageID); err != nil {
		// Already acked; deletion only trims the stream.
		w.log.ErrorContext(ctx, "worker - delete failed", "message_id", messageID, "error", err)
	}
	return nil
}

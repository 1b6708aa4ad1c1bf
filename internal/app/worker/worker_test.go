package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Shubham-rawat0/chatApp/internal/core/services"
)

type fakeQueue struct {
	mu      sync.Mutex
	acked   []string
	deleted []string
}

func (q *fakeQueue) Publish(ctx context.Context, topic string, payload []byte) error { return nil }

func (q *fakeQueue) Subscribe(ctx context.Context, topic, group string, handler func(ctx context.Context, messageID string, data []byte) error) error {
	return nil
}

func (q *fakeQueue) Acknowledge(ctx context.Context, topic, group, messageID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, messageID)
	return nil
}

func (q *fakeQueue) DeleteMessage(ctx context.Context, topic, messageID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, messageID)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	fail error
}

func (m *fakeMailer) SendWelcome(ctx context.Context, to, name string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func newTestWorker(queue *fakeQueue, mailer *fakeMailer) *WelcomeWorker {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWelcomeWorker(log, queue, mailer, "notify:welcome", "welcome-workers")
}

func TestProcessSendsAndAcks(t *testing.T) {
	queue := &fakeQueue{}
	mailer := &fakeMailer{}
	w := newTestWorker(queue, mailer)

	raw, _ := json.Marshal(services.WelcomeJob{Email: "new@example.com", Name: "Nora"})
	if err := w.Process(context.Background(), "1-0", raw); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(mailer.sent) != 1 || mailer.sent[0] != "new@example.com" {
		t.Errorf("Unexpected mail sends: %v", mailer.sent)
	}
	if len(queue.acked) != 1 || queue.acked[0] != "1-0" {
		t.Errorf("Message not acknowledged: %v", queue.acked)
	}
	if len(queue.deleted) != 1 {
		t.Errorf("Message not deleted from stream: %v", queue.deleted)
	}
}

func TestProcessMailFailureLeavesUnacked(t *testing.T) {
	queue := &fakeQueue{}
	mailer := &fakeMailer{fail: errors.New("sendgrid down")}
	w := newTestWorker(queue, mailer)

	raw, _ := json.Marshal(services.WelcomeJob{Email: "new@example.com"})
	if err := w.Process(context.Background(), "1-0", raw); err == nil {
		t.Fatal("Process succeeded despite mail failure")
	}

	// Unacked messages stay in the pending list for redelivery.
	if len(queue.acked) != 0 {
		t.Errorf("Failed message was acknowledged: %v", queue.acked)
	}
}

func TestProcessMalformedJobIsAckedAndDropped(t *testing.T) {
	queue := &fakeQueue{}
	mailer := &fakeMailer{}
	w := newTestWorker(queue, mailer)

	if err := w.Process(context.Background(), "1-0", []byte("{broken")); err != nil {
		t.Fatalf("Malformed job returned error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("Mail sent for malformed job")
	}
	if len(queue.acked) != 1 {
		t.Error("Malformed job not acknowledged; it would redeliver forever")
	}
}

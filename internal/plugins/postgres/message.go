package postgres

import (
	"context"
	"database/sql"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, sender_id, receiver_id, room_id, body, created_at`

// CreateMessage persists the message and returns it with the store-assigned
// timestamp. This is the durability boundary: fan-out happens only after this
// call succeeds.
func (r *MessageRepo) CreateMessage(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, room_id, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, m.ID, m.SenderID, m.ReceiverID, m.RoomID, m.Body)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MessageRepo) queryMessages(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var receiverID, roomID uuid.NullUUID
		if err := rows.Scan(&m.ID, &m.SenderID, &receiverID, &roomID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		if receiverID.Valid {
			m.ReceiverID = &receiverID.UUID
		}
		if roomID.Valid {
			m.RoomID = &roomID.UUID
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *MessageRepo) PrivateHistory(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error) {
	return r.queryMessages(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`, a, b)
}

func (r *MessageRepo) UserPrivateHistory(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	return r.queryMessages(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE (sender_id = $1 OR receiver_id = $1) AND room_id IS NULL
		ORDER BY created_at ASC
	`, userID)
}

func (r *MessageRepo) RoomHistory(ctx context.Context, roomID uuid.UUID) ([]domain.Message, error) {
	return r.queryMessages(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE room_id = $1
		ORDER BY created_at ASC
	`, roomID)
}

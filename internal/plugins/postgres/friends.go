package postgres

import (
	"context"
	"database/sql"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
)

type FriendsRepo struct {
	db *sql.DB
}

func NewFriendsRepo(db *sql.DB) *FriendsRepo {
	return &FriendsRepo{db: db}
}

const friendColumns = `id, requester_id, accepter_id, status, created_at`

func scanFriendship(row *sql.Row) (*domain.Friendship, error) {
	var f domain.Friendship
	err := row.Scan(&f.ID, &f.RequesterID, &f.AccepterID, &f.Status, &f.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrFriendRequestNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FriendsRepo) GetFriendshipByID(ctx context.Context, id uuid.UUID) (*domain.Friendship, error) {
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `SELECT `+friendColumns+` FROM friends WHERE id = $1`, id)
	return scanFriendship(row)
}

func (r *FriendsRepo) FindBetween(ctx context.Context, a, b uuid.UUID) (*domain.Friendship, error) {
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `
		SELECT `+friendColumns+`
		FROM friends
		WHERE (requester_id = $1 AND accepter_id = $2)
		   OR (requester_id = $2 AND accepter_id = $1)
		LIMIT 1
	`, a, b)
	f, err := scanFriendship(row)
	if err == domain.ErrFriendRequestNotFound {
		return nil, nil
	}
	return f, err
}

func (r *FriendsRepo) CreateFriendship(ctx context.Context, f *domain.Friendship) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO friends (id, requester_id, accepter_id, status)
		VALUES ($1, $2, $3, $4)
	`, f.ID, f.RequesterID, f.AccepterID, f.Status)
	return err
}

func (r *FriendsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FriendStatus) (*domain.Friendship, error) {
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `
		UPDATE friends SET status = $2 WHERE id = $1
		RETURNING `+friendColumns,
		id, status)
	return scanFriendship(row)
}

// ListFriends resolves the accepted friendships of a user to the other side's
// roster entry.
func (r *FriendsRepo) ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.Friend, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.last_active
		FROM friends f
		JOIN users u
		  ON u.id = CASE WHEN f.accepter_id = $1 THEN f.requester_id ELSE f.accepter_id END
		WHERE (f.requester_id = $1 OR f.accepter_id = $1)
		  AND f.status = 'ACCEPTED'
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var friends []domain.Friend
	for rows.Next() {
		var f domain.Friend
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.LastActive); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

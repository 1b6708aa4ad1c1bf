package postgres

import (
	"context"
	"database/sql"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
)

type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

func scanRoom(row *sql.Row) (*domain.Room, error) {
	var rm domain.Room
	err := row.Scan(&rm.ID, &rm.RoomName, &rm.CreatedByID, &rm.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepo) GetRoomByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `
		SELECT id, room_name, created_by_id, created_at FROM rooms WHERE id = $1
	`, id)
	return scanRoom(row)
}

func (r *RoomRepo) FindRoomByName(ctx context.Context, name string) (*domain.Room, error) {
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `
		SELECT id, room_name, created_by_id, created_at
		FROM rooms WHERE room_name = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, name)
	return scanRoom(row)
}

func (r *RoomRepo) CreateRoom(ctx context.Context, rm *domain.Room) (*domain.Room, error) {
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `
		INSERT INTO rooms (id, room_name, created_by_id)
		VALUES ($1, $2, $3)
		RETURNING id, room_name, created_by_id, created_at
	`, rm.ID, rm.RoomName, rm.CreatedByID)
	return scanRoom(row)
}

type RoomMemberRepo struct {
	db *sql.DB
}

func NewRoomMemberRepo(db *sql.DB) *RoomMemberRepo {
	return &RoomMemberRepo{db: db}
}

func (r *RoomMemberRepo) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	exec := GetExecutor(ctx, r.db)
	var exists bool
	err := exec.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM room_members WHERE room_id = $1 AND user_id = $2)
	`, roomID, userID).Scan(&exists)
	return exists, err
}

func (r *RoomMemberRepo) AddMember(ctx context.Context, m *domain.RoomMember) error {
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, `
		INSERT INTO room_members (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (room_id, user_id) DO NOTHING
	`, m.RoomID, m.UserID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAlreadyMember
	}
	return nil
}

func (r *RoomMemberRepo) ListMembers(ctx context.Context, roomID uuid.UUID) ([]domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT u.id, u.auth_id, u.email, u.name, u.first_name, u.last_name, u.bio, u.profile_url, u.registration_date, u.last_active
		FROM room_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = $1
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.AuthID, &u.Email, &u.Name, &u.FirstName, &u.LastName,
			&u.Bio, &u.ProfileURL, &u.RegistrationDate, &u.LastActive,
		); err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

func (r *RoomMemberRepo) ListMemberIDs(ctx context.Context, roomID uuid.UUID) ([]uuid.UUID, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT user_id FROM room_members WHERE room_id = $1
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

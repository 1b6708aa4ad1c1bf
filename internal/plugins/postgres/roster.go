package postgres

import (
	"context"
	"database/sql"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
)

// RosterRepo assembles the derived per-user room view: every room the user
// belongs to, with its member list and full message history ascending by
// timestamp.
type RosterRepo struct {
	db      *sql.DB
	rooms   *RoomRepo
	members *RoomMemberRepo
	msgs    *MessageRepo
}

func NewRosterRepo(db *sql.DB, rooms *RoomRepo, members *RoomMemberRepo, msgs *MessageRepo) *RosterRepo {
	return &RosterRepo{db: db, rooms: rooms, members: members, msgs: msgs}
}

func (r *RosterRepo) ListRoomRosters(ctx context.Context, userID uuid.UUID) ([]domain.RoomRoster, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT rm.id, rm.room_name, rm.created_by_id, rm.created_at
		FROM rooms rm
		JOIN room_members m ON m.room_id = rm.id
		WHERE m.user_id = $1
		ORDER BY rm.created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roomList []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.RoomName, &rm.CreatedByID, &rm.CreatedAt); err != nil {
			return nil, err
		}
		roomList = append(roomList, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rosters := make([]domain.RoomRoster, 0, len(roomList))
	for _, rm := range roomList {
		members, err := r.members.ListMembers(ctx, rm.ID)
		if err != nil {
			return nil, err
		}
		msgs, err := r.msgs.RoomHistory(ctx, rm.ID)
		if err != nil {
			return nil, err
		}
		rosters = append(rosters, domain.RoomRoster{
			Room:     rm,
			Members:  members,
			Messages: msgs,
		})
	}
	return rosters, nil
}

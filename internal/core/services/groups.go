package services

import (
	"context"
	"log/slog"

	"github.com/Shubham-rawat0/chatApp/internal/core/contracts"
	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
)

type GroupService struct {
	log       *slog.Logger
	rooms     domain.RoomRepository
	members   domain.RoomMemberRepository
	roster    *RosterService
	txManager contracts.TxRunner
}

func NewGroupService(
	log *slog.Logger,
	rooms domain.RoomRepository,
	members domain.RoomMemberRepository,
	roster *RosterService,
	txManager contracts.TxRunner,
) *GroupService {
	return &GroupService{
		log:       log,
		rooms:     rooms,
		members:   members,
		roster:    roster,
		txManager: txManager,
	}
}

// GetGroups returns the caller's room rosters, cache-first.
func (s *GroupService) GetGroups(ctx context.Context, userID uuid.UUID) ([]domain.RoomRoster, error) {
	return s.roster.GetGroups(ctx, userID)
}

// CreateGroup creates a room and enrolls the creator as its first durable
// member in the same transaction. Without the membership the creator could
// not send to their own room.
func (s *GroupService) CreateGroup(ctx context.Context, me *domain.User, roomName string) ([]domain.RoomRoster, error) {
	room := &domain.Room{
		ID:          uuid.New(),
		RoomName:    roomName,
		CreatedByID: me.ID,
	}
	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		created, err := s.rooms.CreateRoom(txCtx, room)
		if err != nil {
			return err
		}
		return s.members.AddMember(txCtx, &domain.RoomMember{RoomID: created.ID, UserID: me.ID})
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "groups - room created", "room_id", room.ID, "user_id", me.ID)
	return s.roster.RefreshGroups(ctx, me.ID)
}

// AddToGroup adds another user to a room. Only the room creator may do this.
func (s *GroupService) AddToGroup(ctx context.Context, me *domain.User, roomID, userID uuid.UUID) (*domain.RoomRoster, error) {
	room, err := s.rooms.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.CreatedByID != me.ID {
		return nil, domain.ErrNotRoomCreator
	}
	if err := s.members.AddMember(ctx, &domain.RoomMember{RoomID: roomID, UserID: userID}); err != nil {
		return nil, err
	}
	if _, err := s.roster.RefreshGroups(ctx, userID); err != nil {
		s.log.ErrorContext(ctx, "groups - group cache refresh failed", "user_id", userID, "error", err)
	}
	members, err := s.members.ListMembers(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &domain.RoomRoster{Room: *room, Members: members}, nil
}

// JoinGroup enrolls the caller in a room addressed by id or, failing that,
// by name.
func (s *GroupService) JoinGroup(ctx context.Context, me *domain.User, roomID *uuid.UUID, roomName string) ([]domain.RoomRoster, error) {
	var room *domain.Room
	var err error
	if roomID != nil {
		room, err = s.rooms.GetRoomByID(ctx, *roomID)
	} else {
		room, err = s.rooms.FindRoomByName(ctx, roomName)
	}
	if err != nil {
		return nil, err
	}
	if err := s.members.AddMember(ctx, &domain.RoomMember{RoomID: room.ID, UserID: me.ID}); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "groups - member joined", "room_id", room.ID, "user_id", me.ID)
	return s.roster.RefreshGroups(ctx, me.ID)
}

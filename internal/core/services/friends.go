package services

import (
	"context"
	"log/slog"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
)

type FriendService struct {
	log     *slog.Logger
	friends domain.FriendsRepository
	users   domain.UserRepository
	roster  *RosterService
}

func NewFriendService(
	log *slog.Logger,
	friends domain.FriendsRepository,
	users domain.UserRepository,
	roster *RosterService,
) *FriendService {
	return &FriendService{
		log:     log,
		friends: friends,
		users:   users,
		roster:  roster,
	}
}

// AddFriend creates a pending friend request towards the user owning the
// given email. Duplicate requests and self-adds are conflicts, whatever the
// existing row's status.
func (s *FriendService) AddFriend(ctx context.Context, me *domain.User, email string) (*domain.Friendship, error) {
	receiver, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if receiver.ID == me.ID {
		return nil, domain.ErrSelfFriend
	}
	existing, err := s.friends.FindBetween(ctx, me.ID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrFriendshipExists
	}
	request := &domain.Friendship{
		ID:          uuid.New(),
		RequesterID: me.ID,
		AccepterID:  receiver.ID,
		Status:      domain.FriendPending,
	}
	if err := s.friends.CreateFriendship(ctx, request); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "friends - request created", "requester_id", me.ID, "accepter_id", receiver.ID)
	return request, nil
}

// Friends lists the caller's accepted friends.
func (s *FriendService) Friends(ctx context.Context, me *domain.User) ([]domain.Friend, error) {
	return s.friends.ListFriends(ctx, me.ID)
}

// AcceptRequest marks a pending request accepted. Only the accepter may act.
// Both rosters change, so both cached profiles are dropped.
func (s *FriendService) AcceptRequest(ctx context.Context, me *domain.User, requestID uuid.UUID) (*domain.Friendship, error) {
	return s.settleRequest(ctx, me, requestID, domain.FriendAccepted)
}

// DenyRequest marks a pending request rejected. Only the accepter may act.
func (s *FriendService) DenyRequest(ctx context.Context, me *domain.User, requestID uuid.UUID) (*domain.Friendship, error) {
	return s.settleRequest(ctx, me, requestID, domain.FriendRejected)
}

func (s *FriendService) settleRequest(ctx context.Context, me *domain.User, requestID uuid.UUID, status domain.FriendStatus) (*domain.Friendship, error) {
	request, err := s.friends.GetFriendshipByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.AccepterID != me.ID {
		return nil, domain.ErrNotRequestAccepter
	}
	updated, err := s.friends.UpdateStatus(ctx, requestID, status)
	if err != nil {
		return nil, err
	}
	s.invalidateProfiles(ctx, updated.RequesterID, updated.AccepterID)
	return updated, nil
}

// BlockUser forces the friendship row between the two users to BLOCKED,
// creating it if none exists.
func (s *FriendService) BlockUser(ctx context.Context, me *domain.User, targetID uuid.UUID) (*domain.Friendship, error) {
	if targetID == me.ID {
		return nil, domain.ErrSelfBlock
	}
	existing, err := s.friends.FindBetween(ctx, me.ID, targetID)
	if err != nil {
		return nil, err
	}
	var updated *domain.Friendship
	if existing != nil {
		updated, err = s.friends.UpdateStatus(ctx, existing.ID, domain.FriendBlocked)
		if err != nil {
			return nil, err
		}
	} else {
		updated = &domain.Friendship{
			ID:          uuid.New(),
			RequesterID: me.ID,
			AccepterID:  targetID,
			Status:      domain.FriendBlocked,
		}
		if err := s.friends.CreateFriendship(ctx, updated); err != nil {
			return nil, err
		}
	}
	s.invalidateProfiles(ctx, updated.RequesterID, updated.AccepterID)
	return updated, nil
}

func (s *FriendService) invalidateProfiles(ctx context.Context, ids ...uuid.UUID) {
	for _, id := range ids {
		if err := s.roster.InvalidateProfile(ctx, id); err != nil {
			s.log.ErrorContext(ctx, "friends - profile cache invalidation failed", "user_id", id, "error", err)
		}
	}
}

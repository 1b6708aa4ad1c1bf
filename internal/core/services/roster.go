package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Shubham-rawat0/chatApp/internal/core/contracts"
	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
)

const (
	profileFieldUser         = "user"
	profileFieldFriends      = "friends"
	profileFieldPrivateChats = "privateChats"
)

// ProfileKey is the cache hash holding a user's profile, friend roster and
// private chat history. Keyed by the durable user id so socket-path
// invalidation and REST-path reads agree on the key.
func ProfileKey(userID string) string { return "profile:" + userID }

// GroupsKey is the cached per-user group list.
func GroupsKey(userID string) string { return "groups:" + userID }

// ProfileSnapshot is the account view served to clients.
type ProfileSnapshot struct {
	User         *domain.User       `json:"user"`
	Friends      []domain.Friend    `json:"friends"`
	PrivateChats [][]domain.Message `json:"privateChats"`
}

// RosterService owns the derived-data cache: friend rosters and group lists.
// Everything it writes is expendable and rebuilt from the durable store; its
// refresh methods are safe to call best-effort from the message fan-out path.
type RosterService struct {
	log        *slog.Logger
	cache      contracts.Cache
	users      domain.UserRepository
	friends    domain.FriendsRepository
	msgs       domain.MessageRepository
	rosters    domain.RosterRepository
	profileTTL time.Duration
	groupTTL   time.Duration
}

func NewRosterService(
	log *slog.Logger,
	cache contracts.Cache,
	users domain.UserRepository,
	friends domain.FriendsRepository,
	msgs domain.MessageRepository,
	rosters domain.RosterRepository,
	profileTTL time.Duration,
	groupTTL time.Duration,
) *RosterService {
	return &RosterService{
		log:        log,
		cache:      cache,
		users:      users,
		friends:    friends,
		msgs:       msgs,
		rosters:    rosters,
		profileTTL: profileTTL,
		groupTTL:   groupTTL,
	}
}

// GetProfile returns the profile snapshot for the user, serving from cache
// when every field is present and rebuilding from the durable store
// otherwise. Reports whether the cache satisfied the read.
func (s *RosterService) GetProfile(ctx context.Context, user *domain.User) (*ProfileSnapshot, bool, error) {
	key := ProfileKey(user.ID.String())
	cached, err := s.cache.HGetAll(ctx, key)
	if err == nil && cached[profileFieldUser] != "" && cached[profileFieldFriends] != "" && cached[profileFieldPrivateChats] != "" {
		snap := &ProfileSnapshot{}
		if json.Unmarshal([]byte(cached[profileFieldUser]), &snap.User) == nil &&
			json.Unmarshal([]byte(cached[profileFieldFriends]), &snap.Friends) == nil &&
			json.Unmarshal([]byte(cached[profileFieldPrivateChats]), &snap.PrivateChats) == nil {
			return snap, true, nil
		}
		// Corrupt entry: fall through and rebuild.
	}

	snap, err := s.buildProfile(ctx, user)
	if err != nil {
		return nil, false, err
	}
	s.writeProfile(ctx, key, snap)
	return snap, false, nil
}

func (s *RosterService) buildProfile(ctx context.Context, user *domain.User) (*ProfileSnapshot, error) {
	friends, err := s.friends.ListFriends(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	chats := make([][]domain.Message, 0, len(friends))
	for _, f := range friends {
		history, err := s.msgs.PrivateHistory(ctx, user.ID, f.ID)
		if err != nil {
			return nil, err
		}
		chats = append(chats, history)
	}
	return &ProfileSnapshot{User: user, Friends: friends, PrivateChats: chats}, nil
}

func (s *RosterService) writeProfile(ctx context.Context, key string, snap *ProfileSnapshot) {
	userJSON, _ := json.Marshal(snap.User)
	friendsJSON, _ := json.Marshal(snap.Friends)
	chatsJSON, _ := json.Marshal(snap.PrivateChats)
	fields := map[string]string{
		profileFieldUser:         string(userJSON),
		profileFieldFriends:      string(friendsJSON),
		profileFieldPrivateChats: string(chatsJSON),
	}
	if err := s.cache.HSet(ctx, key, fields); err != nil {
		s.log.ErrorContext(ctx, "roster - write profile cache failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Expire(ctx, key, s.profileTTL); err != nil {
		s.log.ErrorContext(ctx, "roster - expire profile cache failed", "key", key, "error", err)
	}
}

// RefreshProfile re-derives the user and friend fields of the profile hash
// and drops the now-stale chat history field. Called after message delivery;
// failures are the caller's to swallow.
func (s *RosterService) RefreshProfile(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	friends, err := s.friends.ListFriends(ctx, userID)
	if err != nil {
		return err
	}
	key := ProfileKey(userID.String())
	userJSON, _ := json.Marshal(user)
	friendsJSON, _ := json.Marshal(friends)
	if err := s.cache.HSet(ctx, key, map[string]string{
		profileFieldUser:    string(userJSON),
		profileFieldFriends: string(friendsJSON),
	}); err != nil {
		return err
	}
	// Chat history changed; invalidate rather than rebuild it inline.
	if err := s.cache.HDel(ctx, key, profileFieldPrivateChats); err != nil {
		return err
	}
	return s.cache.Expire(ctx, key, s.profileTTL)
}

// InvalidateProfile drops the whole cached profile.
func (s *RosterService) InvalidateProfile(ctx context.Context, userID uuid.UUID) error {
	return s.cache.Del(ctx, ProfileKey(userID.String()))
}

// GetGroups returns the user's room rosters, cache-first.
func (s *RosterService) GetGroups(ctx context.Context, userID uuid.UUID) ([]domain.RoomRoster, error) {
	key := GroupsKey(userID.String())
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var rosters []domain.RoomRoster
		if json.Unmarshal([]byte(cached), &rosters) == nil {
			return rosters, nil
		}
	}
	return s.RefreshGroups(ctx, userID)
}

// RefreshGroups re-derives the user's room rosters from the durable store and
// re-caches them. Called for every durable member after a group send, so any
// member reconnecting sees a current list. The cache write is a side effect:
// the rosters are already derived, so a cache failure is logged and the
// rosters returned anyway.
func (s *RosterService) RefreshGroups(ctx context.Context, userID uuid.UUID) ([]domain.RoomRoster, error) {
	rosters, err := s.rosters.ListRoomRosters(ctx, userID)
	if err != nil {
		return nil, err
	}
	raw, _ := json.Marshal(rosters)
	if err := s.cache.Set(ctx, GroupsKey(userID.String()), string(raw), s.groupTTL); err != nil {
		s.log.ErrorContext(ctx, "roster - write group cache failed", "user_id", userID, "error", err)
	}
	return rosters, nil
}

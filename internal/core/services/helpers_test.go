package services_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"
	"github.com/Shubham-rawat0/chatApp/internal/core/services"

	"github.com/google/uuid"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- transport fake ---

type testClient struct {
	id string

	mu   sync.Mutex
	sent [][]byte
}

func newTestClient(id string) *testClient {
	return &testClient{id: id}
}

func (c *testClient) ConnID() string { return c.id }

func (c *testClient) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, data)
	return nil
}

func (c *testClient) Close() {}

func (c *testClient) frames() []domain.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Envelope, 0, len(c.sent))
	for _, raw := range c.sent {
		var env domain.Envelope
		if json.Unmarshal(raw, &env) == nil {
			out = append(out, env)
		}
	}
	return out
}

// lastEvent returns the most recent frame with the given event name, or nil.
func (c *testClient) lastEvent(event string) *domain.Envelope {
	frames := c.frames()
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Event == event {
			return &frames[i]
		}
	}
	return nil
}

// --- repository fakes ---

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
	createErr error
}

func (r *fakeMessageRepo) CreateMessage(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m.CreatedAt = time.Now()
	r.messages = append(r.messages, *m)
	return m, nil
}

func (r *fakeMessageRepo) PrivateHistory(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.ReceiverID == nil {
			continue
		}
		if (m.SenderID == a && *m.ReceiverID == b) || (m.SenderID == b && *m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) UserPrivateHistory(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.ReceiverID != nil && (m.SenderID == userID || *m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) RoomHistory(ctx context.Context, roomID uuid.UUID) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.RoomID != nil && *m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[uuid.UUID][]uuid.UUID // roomID → userIDs
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uuid.UUID][]uuid.UUID)}
}

func (r *fakeMemberRepo) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.members[roomID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMemberRepo) AddMember(ctx context.Context, m *domain.RoomMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.members[m.RoomID] {
		if id == m.UserID {
			return domain.ErrAlreadyMember
		}
	}
	r.members[m.RoomID] = append(r.members[m.RoomID], m.UserID)
	return nil
}

func (r *fakeMemberRepo) ListMembers(ctx context.Context, roomID uuid.UUID) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.members[roomID]))
	for _, id := range r.members[roomID] {
		out = append(out, domain.User{ID: id})
	}
	return out, nil
}

func (r *fakeMemberRepo) ListMemberIDs(ctx context.Context, roomID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.members[roomID]...), nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*domain.User
	touched []uuid.UUID
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.AuthID == authID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) TouchLastActive(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched = append(r.touched, id)
	return nil
}

type fakeFriendsRepo struct {
	mu          sync.Mutex
	friendships map[uuid.UUID]*domain.Friendship
}

func newFakeFriendsRepo() *fakeFriendsRepo {
	return &fakeFriendsRepo{friendships: make(map[uuid.UUID]*domain.Friendship)}
}

func (r *fakeFriendsRepo) GetFriendshipByID(ctx context.Context, id uuid.UUID) (*domain.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.friendships[id]
	if !ok {
		return nil, domain.ErrFriendRequestNotFound
	}
	return f, nil
}

func (r *fakeFriendsRepo) FindBetween(ctx context.Context, a, b uuid.UUID) (*domain.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.friendships {
		if (f.RequesterID == a && f.AccepterID == b) || (f.RequesterID == b && f.AccepterID == a) {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeFriendsRepo) CreateFriendship(ctx context.Context, f *domain.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.friendships[f.ID] = f
	return nil
}

func (r *fakeFriendsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FriendStatus) (*domain.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.friendships[id]
	if !ok {
		return nil, domain.ErrFriendRequestNotFound
	}
	f.Status = status
	return f, nil
}

func (r *fakeFriendsRepo) ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.Friend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Friend
	for _, f := range r.friendships {
		if f.Status != domain.FriendAccepted {
			continue
		}
		switch userID {
		case f.RequesterID:
			out = append(out, domain.Friend{ID: f.AccepterID})
		case f.AccepterID:
			out = append(out, domain.Friend{ID: f.RequesterID})
		}
	}
	return out, nil
}

type fakeRosterRepo struct {
	rosters map[uuid.UUID][]domain.RoomRoster
}

func newFakeRosterRepo() *fakeRosterRepo {
	return &fakeRosterRepo{rosters: make(map[uuid.UUID][]domain.RoomRoster)}
}

func (r *fakeRosterRepo) ListRoomRosters(ctx context.Context, userID uuid.UUID) ([]domain.RoomRoster, error) {
	return r.rosters[userID], nil
}

// --- cache fake ---

// fakeCache is an in-memory contracts.Cache. Setting fail makes every call
// return that error, for exercising cache-down paths.
type fakeCache struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	kv     map[string]string
	fail   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		hashes: make(map[string]map[string]string),
		kv:     make(map[string]string),
	}
}

func (c *fakeCache) HSet(ctx context.Context, key string, fields map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	if c.hashes[key] == nil {
		c.hashes[key] = make(map[string]string)
	}
	for f, v := range fields {
		c.hashes[key][f] = v
	}
	return nil
}

func (c *fakeCache) HGet(ctx context.Context, key, field string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return "", c.fail
	}
	return c.hashes[key][field], nil
}

func (c *fakeCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return nil, c.fail
	}
	out := make(map[string]string, len(c.hashes[key]))
	for f, v := range c.hashes[key] {
		out[f] = v
	}
	return out, nil
}

func (c *fakeCache) HDel(ctx context.Context, key string, fields ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	for _, f := range fields {
		delete(c.hashes[key], f)
	}
	return nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.kv[key] = value
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return "", c.fail
	}
	return c.kv[key], nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	delete(c.kv, key)
	delete(c.hashes, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return false, c.fail
	}
	_, inKV := c.kv[key]
	_, inHash := c.hashes[key]
	return inKV || inHash, nil
}

func (c *fakeCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fail
}

func (c *fakeCache) hashField(key, field string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hashes[key][field]
}

func newTestRoster(t *testing.T, cache *fakeCache, users *fakeUserRepo, friends *fakeFriendsRepo, msgs *fakeMessageRepo, rosters *fakeRosterRepo) *services.RosterService {
	t.Helper()
	return services.NewRosterService(newTestLogger(), cache, users, friends, msgs, rosters, time.Hour, time.Hour)
}

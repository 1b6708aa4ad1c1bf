package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"
	"github.com/Shubham-rawat0/chatApp/internal/core/services"

	"github.com/google/uuid"
)

type friendsFixture struct {
	svc     *services.FriendService
	friends *fakeFriendsRepo
	cache   *fakeCache
}

func newFriendsFixture(t *testing.T, users ...*domain.User) *friendsFixture {
	t.Helper()
	f := &friendsFixture{
		friends: newFakeFriendsRepo(),
		cache:   newFakeCache(),
	}
	userRepo := newFakeUserRepo(users...)
	roster := newTestRoster(t, f.cache, userRepo, f.friends, &fakeMessageRepo{}, newFakeRosterRepo())
	f.svc = services.NewFriendService(newTestLogger(), f.friends, userRepo, roster)
	return f
}

func TestAddFriendCreatesPendingRequest(t *testing.T) {
	me := &domain.User{ID: uuid.New(), Email: "me@example.com"}
	other := &domain.User{ID: uuid.New(), Email: "other@example.com"}
	f := newFriendsFixture(t, me, other)

	request, err := f.svc.AddFriend(context.Background(), me, "other@example.com")
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if request.Status != domain.FriendPending {
		t.Errorf("Expected PENDING status, got %s", request.Status)
	}
	if request.RequesterID != me.ID || request.AccepterID != other.ID {
		t.Errorf("Request links wrong users: %+v", request)
	}
}

func TestAddFriendSelfRejected(t *testing.T) {
	me := &domain.User{ID: uuid.New(), Email: "me@example.com"}
	f := newFriendsFixture(t, me)

	if _, err := f.svc.AddFriend(context.Background(), me, "me@example.com"); !errors.Is(err, domain.ErrSelfFriend) {
		t.Errorf("Expected ErrSelfFriend, got %v", err)
	}
}

func TestAddFriendUnknownEmail(t *testing.T) {
	me := &domain.User{ID: uuid.New(), Email: "me@example.com"}
	f := newFriendsFixture(t, me)

	if _, err := f.svc.AddFriend(context.Background(), me, "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestAddFriendDuplicateRejectedEitherDirection(t *testing.T) {
	me := &domain.User{ID: uuid.New(), Email: "me@example.com"}
	other := &domain.User{ID: uuid.New(), Email: "other@example.com"}
	f := newFriendsFixture(t, me, other)
	ctx := context.Background()

	if _, err := f.svc.AddFriend(ctx, me, "other@example.com"); err != nil {
		t.Fatalf("First AddFriend failed: %v", err)
	}
	if _, err := f.svc.AddFriend(ctx, me, "other@example.com"); !errors.Is(err, domain.ErrFriendshipExists) {
		t.Errorf("Expected ErrFriendshipExists on repeat, got %v", err)
	}
	if _, err := f.svc.AddFriend(ctx, other, "me@example.com"); !errors.Is(err, domain.ErrFriendshipExists) {
		t.Errorf("Expected ErrFriendshipExists in reverse direction, got %v", err)
	}
}

func TestAcceptRequestOnlyByAccepter(t *testing.T) {
	me := &domain.User{ID: uuid.New(), Email: "me@example.com"}
	other := &domain.User{ID: uuid.New(), Email: "other@example.com"}
	f := newFriendsFixture(t, me, other)
	ctx := context.Background()

	request, err := f.svc.AddFriend(ctx, me, "other@example.com")
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	// The requester may not settle their own request.
	if _, err := f.svc.AcceptRequest(ctx, me, request.ID); !errors.Is(err, domain.ErrNotRequestAccepter) {
		t.Errorf("Expected ErrNotRequestAccepter, got %v", err)
	}

	updated, err := f.svc.AcceptRequest(ctx, other, request.ID)
	if err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}
	if updated.Status != domain.FriendAccepted {
		t.Errorf("Expected ACCEPTED status, got %s", updated.Status)
	}
}

func TestDenyRequest(t *testing.T) {
	me := &domain.User{ID: uuid.New(), Email: "me@example.com"}
	other := &domain.User{ID: uuid.New(), Email: "other@example.com"}
	f := newFriendsFixture(t, me, other)
	ctx := context.Background()

	request, err := f.svc.AddFriend(ctx, me, "other@example.com")
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	updated, err := f.svc.DenyRequest(ctx, other, request.ID)
	if err != nil {
		t.Fatalf("DenyRequest failed: %v", err)
	}
	if updated.Status != domain.FriendRejected {
		t.Errorf("Expected REJECTED status, got %s", updated.Status)
	}
}

func TestFriendsListsOnlyAccepted(t *testing.T) {
	me := &domain.User{ID: uuid.New(), Email: "me@example.com"}
	accepted := &domain.User{ID: uuid.New(), Email: "accepted@example.com"}
	pending := &domain.User{ID: uuid.New(), Email: "pending@example.com"}
	f := newFriendsFixture(t, me, accepted, pending)
	ctx := context.Background()

	request, err := f.svc.AddFriend(ctx, me, "accepted@example.com")
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if _, err := f.svc.AcceptRequest(ctx, accepted, request.ID); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}
	if _, err := f.svc.AddFriend(ctx, me, "pending@example.com"); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	friends, err := f.svc.Friends(ctx, me)
	if err != nil {
		t.Fatalf("Friends failed: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != accepted.ID {
		t.Errorf("Expected only the accepted friend, got %+v", friends)
	}
}

func TestAcceptUnknownRequest(t *testing.T) {
	me := &domain.User{ID: uuid.New()}
	f := newFriendsFixture(t, me)

	if _, err := f.svc.AcceptRequest(context.Background(), me, uuid.New()); !errors.Is(err, domain.ErrFriendRequestNotFound) {
		t.Errorf("Expected ErrFriendRequestNotFound, got %v", err)
	}
}

func TestBlockUserOverridesExistingFriendship(t *testing.T) {
	me := &domain.User{ID: uuid.New(), Email: "me@example.com"}
	other := &domain.User{ID: uuid.New(), Email: "other@example.com"}
	f := newFriendsFixture(t, me, other)
	ctx := context.Background()

	request, err := f.svc.AddFriend(ctx, me, "other@example.com")
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if _, err := f.svc.AcceptRequest(ctx, other, request.ID); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}

	updated, err := f.svc.BlockUser(ctx, me, other.ID)
	if err != nil {
		t.Fatalf("BlockUser failed: %v", err)
	}
	if updated.Status != domain.FriendBlocked {
		t.Errorf("Expected BLOCKED status, got %s", updated.Status)
	}
	if updated.ID != request.ID {
		t.Error("Block created a second row instead of updating the existing one")
	}
}

func TestBlockUserWithoutPriorRow(t *testing.T) {
	me := &domain.User{ID: uuid.New()}
	stranger := &domain.User{ID: uuid.New()}
	f := newFriendsFixture(t, me, stranger)

	updated, err := f.svc.BlockUser(context.Background(), me, stranger.ID)
	if err != nil {
		t.Fatalf("BlockUser failed: %v", err)
	}
	if updated.Status != domain.FriendBlocked {
		t.Errorf("Expected BLOCKED status, got %s", updated.Status)
	}
}

func TestBlockSelfRejected(t *testing.T) {
	me := &domain.User{ID: uuid.New()}
	f := newFriendsFixture(t, me)

	if _, err := f.svc.BlockUser(context.Background(), me, me.ID); !errors.Is(err, domain.ErrSelfBlock) {
		t.Errorf("Expected ErrSelfBlock, got %v", err)
	}
}

package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository handles the durable identity. Lookups by AuthID resolve the
// external auth identity to the internal row before any routing operation.
type UserRepository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByAuthID(ctx context.Context, authID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, u *User) (*User, error)
	UpdateUser(ctx context.Context, u *User) (*User, error)
	TouchLastActive(ctx context.Context, id uuid.UUID) error
}

// FriendsRepository handles friendship rows and roster derivation.
type FriendsRepository interface {
	GetFriendshipByID(ctx context.Context, id uuid.UUID) (*Friendship, error)
	// FindBetween returns the friendship row linking the two users in either
	// direction, or nil if none exists.
	FindBetween(ctx context.Context, a, b uuid.UUID) (*Friendship, error)
	CreateFriendship(ctx context.Context, f *Friendship) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status FriendStatus) (*Friendship, error)
	// ListFriends returns the accepted-friend roster view for a user.
	ListFriends(ctx context.Context, userID uuid.UUID) ([]Friend, error)
}

// RoomRepository handles durable rooms.
type RoomRepository interface {
	GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error)
	FindRoomByName(ctx context.Context, name string) (*Room, error)
	CreateRoom(ctx context.Context, r *Room) (*Room, error)
}

// RoomMemberRepository handles the durable membership relation.
type RoomMemberRepository interface {
	IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, m *RoomMember) error
	ListMembers(ctx context.Context, roomID uuid.UUID) ([]User, error)
	ListMemberIDs(ctx context.Context, roomID uuid.UUID) ([]uuid.UUID, error)
}

// MessageRepository persists messages and serves history reads. All history
// queries return messages in ascending created_at order.
type MessageRepository interface {
	CreateMessage(ctx context.Context, m *Message) (*Message, error)
	// PrivateHistory returns the full conversation between two users.
	PrivateHistory(ctx context.Context, a, b uuid.UUID) ([]Message, error)
	// UserPrivateHistory returns every private message the user sent or received.
	UserPrivateHistory(ctx context.Context, userID uuid.UUID) ([]Message, error)
	RoomHistory(ctx context.Context, roomID uuid.UUID) ([]Message, error)
}

// RosterRepository builds the per-user room view (rooms, members, messages).
type RosterRepository interface {
	ListRoomRosters(ctx context.Context, userID uuid.UUID) ([]RoomRoster, error)
}

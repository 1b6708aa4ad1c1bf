package domain

import (
	"time"

	"github.com/google/uuid"
)

// FriendStatus tracks the lifecycle of a friendship row.
type FriendStatus string

const (
	FriendPending  FriendStatus = "PENDING"
	FriendAccepted FriendStatus = "ACCEPTED"
	FriendRejected FriendStatus = "REJECTED"
	FriendBlocked  FriendStatus = "BLOCKED"
)

// AuthIdentity is the verified identity extracted from a bearer credential by
// the external auth service. ID is the opaque stable auth identifier.
type AuthIdentity struct {
	ID         string
	Email      string
	FirstName  string
	LastName   string
	ProfileURL string
}

// User is the durable identity. AuthID is the opaque identifier issued by the
// external auth service; ID is the internal durable key. Exactly one user row
// exists per AuthID.
type User struct {
	ID               uuid.UUID `json:"id"`
	AuthID           string    `json:"authId"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Bio              string    `json:"bio"`
	ProfileURL       string    `json:"profileUrl"`
	RegistrationDate time.Time `json:"registrationDate"`
	LastActive       time.Time `json:"lastActive"`
}

// Friendship links two users. The requester initiates; only the accepter may
// accept or reject.
type Friendship struct {
	ID          uuid.UUID    `json:"id"`
	RequesterID uuid.UUID    `json:"requesterId"`
	AccepterID  uuid.UUID    `json:"accepterId"`
	Status      FriendStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Room is a durable group chat.
type Room struct {
	ID          uuid.UUID `json:"id"`
	RoomName    string    `json:"roomName"`
	CreatedByID uuid.UUID `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RoomMember is the durable membership relation. Distinct from a live room
// subscription: a user can be a member without a connected socket, and a
// subscribed socket only delivers if the membership row exists.
type RoomMember struct {
	RoomID   uuid.UUID `json:"roomId"`
	UserID   uuid.UUID `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Message is immutable once created. Exactly one of ReceiverID (private) or
// RoomID (group) is set.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"senderId"`
	ReceiverID *uuid.UUID `json:"receiverId,omitempty"`
	RoomID     *uuid.UUID `json:"roomId,omitempty"`
	Body       string     `json:"message"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Friend is the roster view of an accepted friendship from one user's side.
type Friend struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	LastActive time.Time `json:"lastActive"`
}

// RoomRoster is the derived per-user view: a room, its members and its message
// history in ascending timestamp order. Cached with a TTL, rebuilt on demand.
type RoomRoster struct {
	Room     Room      `json:"room"`
	Members  []User    `json:"members"`
	Messages []Message `json:"chats"`
}

package domain

import "errors"

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrAuthFailed   = errors.New("invalid credentials")

	ErrUserNotFound          = errors.New("user not found")
	ErrRoomNotFound          = errors.New("room not found")
	ErrFriendRequestNotFound = errors.New("friend request not found")

	ErrNotRoomCreator     = errors.New("not the room creator")
	ErrNotRequestAccepter = errors.New("not the accepter of this friend request")
	ErrNotRoomMember      = errors.New("sender is not a member of this room")

	ErrSelfFriend       = errors.New("cannot add yourself as a friend")
	ErrSelfBlock        = errors.New("cannot block yourself")
	ErrFriendshipExists = errors.New("friend request or friendship already exists")
	ErrAlreadyMember    = errors.New("user already in group")

	// ErrNotRegistered is a protocol violation: a socket event that requires a
	// bound user identity arrived on an anonymous connection.
	ErrNotRegistered = errors.New("connection has no registered user")

	// ErrEmptyMessage is returned by validation only; send paths treat an
	// empty body as a silent no-op and never surface it to the client.
	ErrEmptyMessage = errors.New("message body is empty")
)

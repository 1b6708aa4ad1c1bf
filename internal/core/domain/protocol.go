package domain

import (
	"encoding/json"
	"time"
)

// Socket event names. Inbound events are sent by clients, outbound events are
// emitted by the server.
const (
	EventRegister      = "register"
	EventRegisterGroup = "register-group"
	EventPrivateSend   = "private-message"
	EventGroupSend     = "group-message-sent"

	EventPrivateReceive = "receive-private-message"
	EventPrivateAck     = "private-message-sent"
	EventGroupReceive   = "group-message-received"
	EventError          = "error"
)

// Envelope frames every message on the socket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RegisterPayload binds a connection to a user identity.
type RegisterPayload struct {
	UserID string `json:"userId"`
}

// JoinGroupPayload subscribes the connection to a room's live fan-out.
type JoinGroupPayload struct {
	UserID string `json:"userId"`
	RoomID string `json:"roomId"`
}

// PrivateMessagePayload is the inbound private send event.
type PrivateMessagePayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

// GroupMessagePayload is the inbound group send event.
type GroupMessagePayload struct {
	UserID  string `json:"userId"`
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// PrivateDelivery is pushed to the receiver's connection.
type PrivateDelivery struct {
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PrivateAck is always emitted back to the sender. Success means the message
// was persisted; ReceiverOnline reports whether a live delivery was attempted.
type PrivateAck struct {
	Success        bool `json:"success"`
	ReceiverOnline bool `json:"receiverOnline"`
}

// GroupDelivery is pushed to every subscribed room member except the sender.
type GroupDelivery struct {
	SenderID  string    `json:"senderId"`
	RoomID    string    `json:"roomId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrorEvent is emitted to the originating connection on a recoverable
// failure. The connection stays open.
type ErrorEvent struct {
	Message string `json:"message"`
}

// NewEnvelope marshals a payload into a framed socket event.
func NewEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

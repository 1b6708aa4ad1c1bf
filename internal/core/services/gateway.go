package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Shubham-rawat0/chatApp/internal/core/contracts"
	"github.com/Shubham-rawat0/chatApp/internal/core/domain"
	"github.com/Shubham-rawat0/chatApp/pkg/logging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var gatewayTracer = otel.Tracer("gateway")

// PresenceMirrorKey is the cache hash mirroring the live presence index
// (field: user id, value: connection id). Best-effort; rebuilt by reconnects
// after a restart.
const PresenceMirrorKey = "online_users"

// Conn is the per-connection state owned by the gateway for the lifetime of
// one socket: anonymous until an explicit register event binds a user, plus
// the rooms this connection subscribed to, tracked locally so disconnect
// cleanup touches only those rooms.
type Conn struct {
	client contracts.Client

	mu     sync.Mutex
	userID string
	rooms  []string
	closed bool
}

func NewConn(client contracts.Client) *Conn {
	return &Conn{client: client}
}

func (c *Conn) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *Conn) setUserID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = id
}

func (c *Conn) trackRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rooms {
		if r == roomID {
			return
		}
	}
	c.rooms = append(c.rooms, roomID)
}

// finish marks the connection closed and returns its final state. The first
// caller wins; later calls see closed=true so teardown runs exactly once.
func (c *Conn) finish() (userID string, rooms []string, already bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", nil, true
	}
	c.closed = true
	return c.userID, c.rooms, false
}

// Gateway is the connection lifecycle manager. It owns the register → join →
// send → disconnect state machine for every socket and is the only writer of
// the presence and room indexes besides the router's reads.
type Gateway struct {
	log      *slog.Logger
	presence contracts.PresenceRegistry
	rooms    contracts.RoomIndex
	router   *MessageRouter
	users    domain.UserRepository
	cache    contracts.Cache
}

func NewGateway(
	log *slog.Logger,
	presence contracts.PresenceRegistry,
	rooms contracts.RoomIndex,
	router *MessageRouter,
	users domain.UserRepository,
	cache contracts.Cache,
) *Gateway {
	return &Gateway{
		log:      log,
		presence: presence,
		rooms:    rooms,
		router:   router,
		users:    users,
		cache:    cache,
	}
}

// HandleEvent processes one inbound socket event. The caller invokes it
// serially from the connection's read loop, which is what gives events from
// one connection their processing order.
func (g *Gateway) HandleEvent(ctx context.Context, conn *Conn, raw []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.log.WarnContext(ctx, "gateway - malformed event frame", "conn_id", conn.client.ConnID(), "error", err)
		g.emitError(ctx, conn, "malformed event")
		return
	}

	ctx, span := gatewayTracer.Start(ctx, "Gateway.HandleEvent", trace.WithAttributes(
		attribute.String("event", env.Event),
		attribute.String("conn_id", conn.client.ConnID()),
	))
	defer span.End()

	switch env.Event {
	case domain.EventRegister:
		g.handleRegister(ctx, conn, env.Data)
	case domain.EventRegisterGroup:
		g.handleJoinGroup(ctx, conn, env.Data)
	case domain.EventPrivateSend:
		g.handlePrivateMessage(ctx, conn, env.Data)
	case domain.EventGroupSend:
		g.handleGroupMessage(ctx, conn, env.Data)
	default:
		g.log.WarnContext(ctx, "gateway - unknown event", logging.Event(env.Event), logging.Conn(conn.client.ConnID()))
	}
}

func (g *Gateway) handleRegister(ctx context.Context, conn *Conn, data json.RawMessage) {
	var p domain.RegisterPayload
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == "" {
		g.emitError(ctx, conn, "invalid register payload")
		return
	}
	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		g.emitError(ctx, conn, "invalid user id")
		return
	}

	// A connection may re-register as another user; the old binding's
	// presence entry comes out so it does not dangle as a ghost. Remove is
	// guarded by conn id, so an entry a newer socket owns is untouched.
	if prev := conn.UserID(); prev != "" && prev != p.UserID {
		if g.presence.Remove(prev, conn.client.ConnID()) {
			if err := g.cache.HDel(ctx, PresenceMirrorKey, prev); err != nil {
				g.log.ErrorContext(ctx, "gateway - presence mirror delete failed", "user_id", prev, "error", err)
			}
		}
		g.log.InfoContext(ctx, "gateway - connection rebound",
			"old_user_id", prev, "user_id", p.UserID, "conn_id", conn.client.ConnID())
	}

	conn.setUserID(p.UserID)
	displaced := g.presence.Register(p.UserID, conn.client)
	if displaced != nil {
		// The older socket becomes a ghost: nothing routes to it anymore and
		// transport writes to it after close are no-ops.
		g.log.InfoContext(ctx, "gateway - register displaced previous connection",
			"user_id", p.UserID, "old_conn_id", displaced.ConnID(), "conn_id", conn.client.ConnID())
	}

	// Presence mirror and activity touch are side effects, not preconditions.
	if err := g.cache.HSet(ctx, PresenceMirrorKey, map[string]string{p.UserID: conn.client.ConnID()}); err != nil {
		g.log.ErrorContext(ctx, "gateway - presence mirror update failed", "user_id", p.UserID, "error", err)
	}
	if err := g.users.TouchLastActive(ctx, userID); err != nil {
		g.log.ErrorContext(ctx, "gateway - last active update failed", "user_id", p.UserID, "error", err)
	}
	g.log.InfoContext(ctx, "gateway - user registered", logging.User(p.UserID), logging.Conn(conn.client.ConnID()))
}

func (g *Gateway) handleJoinGroup(ctx context.Context, conn *Conn, data json.RawMessage) {
	var p domain.JoinGroupPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		g.emitError(ctx, conn, "invalid join payload")
		return
	}
	if conn.UserID() == "" {
		// Protocol violation: joins are only valid on a registered connection.
		g.log.WarnContext(ctx, "gateway - join from anonymous connection", "room_id", p.RoomID, "conn_id", conn.client.ConnID())
		g.emitError(ctx, conn, domain.ErrNotRegistered.Error())
		return
	}
	if _, err := uuid.Parse(p.RoomID); err != nil {
		g.emitError(ctx, conn, "invalid room id")
		return
	}

	g.rooms.Join(p.RoomID, conn.client)
	conn.trackRoom(p.RoomID)
	g.log.InfoContext(ctx, "gateway - joined room", logging.User(conn.UserID()), logging.Room(p.RoomID), logging.Conn(conn.client.ConnID()))
}

func (g *Gateway) handlePrivateMessage(ctx context.Context, conn *Conn, data json.RawMessage) {
	var p domain.PrivateMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		g.emitError(ctx, conn, "invalid private message payload")
		return
	}
	senderID, err := uuid.Parse(p.SenderID)
	if err != nil {
		g.emitError(ctx, conn, "invalid sender id")
		return
	}
	receiverID, err := uuid.Parse(p.ReceiverID)
	if err != nil {
		g.emitError(ctx, conn, "invalid receiver id")
		return
	}
	if err := g.router.SendPrivate(ctx, conn.client, senderID, receiverID, p.Message); err != nil {
		g.log.ErrorContext(ctx, "gateway - private send failed", "sender_id", p.SenderID, "receiver_id", p.ReceiverID, "error", err)
		g.emitError(ctx, conn, "Failed to send private message")
	}
}

func (g *Gateway) handleGroupMessage(ctx context.Context, conn *Conn, data json.RawMessage) {
	var p domain.GroupMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		g.emitError(ctx, conn, "invalid group message payload")
		return
	}
	senderID, err := uuid.Parse(p.UserID)
	if err != nil {
		g.emitError(ctx, conn, "invalid user id")
		return
	}
	roomID, err := uuid.Parse(p.RoomID)
	if err != nil {
		g.emitError(ctx, conn, "invalid room id")
		return
	}
	if err := g.router.SendGroup(ctx, conn.client, senderID, roomID, p.Message); err != nil {
		g.log.ErrorContext(ctx, "gateway - group send failed", "sender_id", p.UserID, "room_id", p.RoomID, "error", err)
		if err == domain.ErrNotRoomMember {
			g.emitError(ctx, conn, err.Error())
			return
		}
		g.emitError(ctx, conn, "Failed to send group message")
	}
}

// Disconnect tears down a connection's index entries. Runs exactly once per
// connection regardless of how many paths race into it, and never removes a
// presence entry that a newer connection has since re-registered.
func (g *Gateway) Disconnect(ctx context.Context, conn *Conn) {
	userID, rooms, already := conn.finish()
	if already {
		return
	}
	ctx, span := gatewayTracer.Start(ctx, "Gateway.Disconnect", trace.WithAttributes(
		attribute.String("conn_id", conn.client.ConnID()),
		attribute.String("user_id", userID),
	))
	defer span.End()

	g.rooms.Leave(conn.client.ConnID(), rooms)

	if userID != "" {
		if g.presence.Remove(userID, conn.client.ConnID()) {
			if err := g.cache.HDel(ctx, PresenceMirrorKey, userID); err != nil {
				g.log.ErrorContext(ctx, "gateway - presence mirror delete failed", "user_id", userID, "error", err)
			}
		}
	}
	g.log.InfoContext(ctx, "gateway - connection closed", "user_id", userID, "conn_id", conn.client.ConnID(), "rooms_left", len(rooms))
}

func (g *Gateway) emitError(ctx context.Context, conn *Conn, message string) {
	data, _ := domain.NewEnvelope(domain.EventError, domain.ErrorEvent{Message: message})
	_ = conn.client.Send(ctx, data)
}

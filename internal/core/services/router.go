package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Shubham-rawat0/chatApp/internal/core/contracts"
	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("message-router")

// MessageRouter handles each inbound send event: persist the message, resolve
// live delivery targets, fan out, then refresh the affected caches.
// Persistence is the durability boundary; a persistence failure aborts the
// send and propagates. Cache refresh failures never do: the cache is derived
// state and a send must not fail because it is unavailable.
type MessageRouter struct {
	log      *slog.Logger
	msgs     domain.MessageRepository
	members  domain.RoomMemberRepository
	presence contracts.PresenceRegistry
	rooms    contracts.RoomIndex
	roster   *RosterService
}

func NewMessageRouter(
	log *slog.Logger,
	msgs domain.MessageRepository,
	members domain.RoomMemberRepository,
	presence contracts.PresenceRegistry,
	rooms contracts.RoomIndex,
	roster *RosterService,
) *MessageRouter {
	return &MessageRouter{
		log:      log,
		msgs:     msgs,
		members:  members,
		presence: presence,
		rooms:    rooms,
		roster:   roster,
	}
}

// SendPrivate persists and delivers a private message. senderConn may be nil
// if the sender's connection vanished mid-send; the acknowledgement then
// becomes a no-op while the message still persists. An empty body after
// trimming is silently ignored: there is nothing to send.
func (r *MessageRouter) SendPrivate(
	ctx context.Context,
	senderConn contracts.Client,
	senderID, receiverID uuid.UUID,
	body string,
) error {
	ctx, span := tracer.Start(ctx, "MessageRouter.SendPrivate", trace.WithAttributes(
		attribute.String("sender_id", senderID.String()),
		attribute.String("receiver_id", receiverID.String()),
	))
	defer span.End()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	msg := &domain.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: &receiverID,
		Body:       body,
	}
	msg, err := r.msgs.CreateMessage(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		r.log.ErrorContext(ctx, "router - private send - persist failed", "sender_id", senderID, "receiver_id", receiverID, "error", err)
		return err
	}

	receiver, online := r.presence.Lookup(receiverID.String())
	if online {
		data, _ := domain.NewEnvelope(domain.EventPrivateReceive, domain.PrivateDelivery{
			SenderID:   senderID.String(),
			ReceiverID: receiverID.String(),
			Message:    msg.Body,
			CreatedAt:  msg.CreatedAt,
		})
		if err := receiver.Send(ctx, data); err != nil {
			// Receiver raced a disconnect; the message is persisted, so this
			// stays a delivery miss rather than a send failure.
			r.log.WarnContext(ctx, "router - private send - live delivery failed", "receiver_id", receiverID, "error", err)
		}
	}

	if senderConn != nil {
		data, _ := domain.NewEnvelope(domain.EventPrivateAck, domain.PrivateAck{
			Success:        true,
			ReceiverOnline: online,
		})
		_ = senderConn.Send(ctx, data)
	}

	r.refreshProfiles(ctx, senderID, receiverID)
	span.SetAttributes(attribute.Bool("receiver_online", online))
	return nil
}

// SendGroup persists and fans out a group message. The sender must be a
// durable member of the room; the check runs before any persistence.
func (r *MessageRouter) SendGroup(
	ctx context.Context,
	senderConn contracts.Client,
	senderID, roomID uuid.UUID,
	body string,
) error {
	ctx, span := tracer.Start(ctx, "MessageRouter.SendGroup", trace.WithAttributes(
		attribute.String("sender_id", senderID.String()),
		attribute.String("room_id", roomID.String()),
	))
	defer span.End()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	isMember, err := r.members.IsMember(ctx, roomID, senderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "membership check failed")
		return err
	}
	if !isMember {
		span.SetStatus(codes.Error, "sender not a member")
		return domain.ErrNotRoomMember
	}

	msg := &domain.Message{
		ID:       uuid.New(),
		SenderID: senderID,
		RoomID:   &roomID,
		Body:     body,
	}
	msg, err = r.msgs.CreateMessage(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		r.log.ErrorContext(ctx, "router - group send - persist failed", "sender_id", senderID, "room_id", roomID, "error", err)
		return err
	}

	excludeConn := ""
	if senderConn != nil {
		excludeConn = senderConn.ConnID()
	}
	data, _ := domain.NewEnvelope(domain.EventGroupReceive, domain.GroupDelivery{
		SenderID:  senderID.String(),
		RoomID:    roomID.String(),
		Message:   msg.Body,
		CreatedAt: msg.CreatedAt,
	})
	targets := r.rooms.BroadcastTargets(roomID.String(), excludeConn)
	for _, target := range targets {
		if err := target.Send(ctx, data); err != nil {
			r.log.WarnContext(ctx, "router - group send - live delivery failed", "room_id", roomID, "conn_id", target.ConnID(), "error", err)
		}
	}
	span.SetAttributes(attribute.Int("live_targets", len(targets)))

	// Every durable member's cached group list is stale now, connected or
	// not: any of them may reconnect and fetch the list before its TTL runs
	// out.
	memberIDs, err := r.members.ListMemberIDs(ctx, roomID)
	if err != nil {
		r.log.ErrorContext(ctx, "router - group send - list members for cache refresh failed", "room_id", roomID, "error", err)
		return nil
	}
	for _, memberID := range memberIDs {
		if _, err := r.roster.RefreshGroups(ctx, memberID); err != nil {
			r.log.ErrorContext(ctx, "router - group send - group cache refresh failed", "user_id", memberID, "room_id", roomID, "error", err)
		}
	}
	return nil
}

func (r *MessageRouter) refreshProfiles(ctx context.Context, ids ...uuid.UUID) {
	for _, id := range ids {
		if err := r.roster.RefreshProfile(ctx, id); err != nil {
			r.log.ErrorContext(ctx, "router - profile cache refresh failed", "user_id", id, "error", err)
		}
	}
}

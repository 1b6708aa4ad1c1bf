package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"
	"github.com/Shubham-rawat0/chatApp/internal/core/services"
	"github.com/Shubham-rawat0/chatApp/pkg/middleware"

	"github.com/google/uuid"
)

type UserHandler struct {
	log     *slog.Logger
	users   *services.UserService
	friends *services.FriendService
	groups  *services.GroupService
}

func NewUserHandler(
	log *slog.Logger,
	users *services.UserService,
	friends *services.FriendService,
	groups *services.GroupService,
) *UserHandler {
	return &UserHandler{
		log:     log,
		users:   users,
		friends: friends,
		groups:  groups,
	}
}

// currentUser resolves the authenticated identity to its durable user row.
func (h *UserHandler) currentUser(r *http.Request) (*domain.User, error) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	return h.users.ResolveUser(r.Context(), ident)
}

// Account serves the caller's full profile snapshot, creating the account on
// first contact.
func (h *UserHandler) Account(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrAuthRequired)
		return
	}
	snapshot, fromCache, err := h.users.GetOrCreateAccount(r.Context(), ident)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data":   snapshot,
		"cached": fromCache,
	})
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrAuthRequired)
		return
	}
	var body struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Name      *string `json:"name"`
		Bio       *string `json:"bio"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	in := services.UpdateUserInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Name:      body.Name,
		Bio:       body.Bio,
	}
	if in.Empty() {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "no fields to update"})
		return
	}
	updated, err := h.users.UpdateProfile(r.Context(), ident, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": updated})
}

// CurrentUser serves the caller's durable user row, without the cached
// profile wrapping Account adds.
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	me, err := h.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": me})
}

// FriendsOfUser serves the caller's accepted friends.
func (h *UserHandler) FriendsOfUser(w http.ResponseWriter, r *http.Request) {
	me, err := h.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	friends, err := h.friends.Friends(r.Context(), me)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": friends})
}

func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	me, err := h.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil || body.Email == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}
	request, err := h.friends.AddFriend(r.Context(), me, body.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"data": request})
}

func (h *UserHandler) AcceptFriend(w http.ResponseWriter, r *http.Request) {
	h.settleFriend(w, r, true)
}

func (h *UserHandler) RejectFriend(w http.ResponseWriter, r *http.Request) {
	h.settleFriend(w, r, false)
}

func (h *UserHandler) settleFriend(w http.ResponseWriter, r *http.Request, accept bool) {
	me, err := h.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		RequestID string `json:"requestId"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	requestID, err := uuid.Parse(body.RequestID)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request id"})
		return
	}
	var updated *domain.Friendship
	if accept {
		updated, err = h.friends.AcceptRequest(r.Context(), me, requestID)
	} else {
		updated, err = h.friends.DenyRequest(r.Context(), me, requestID)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *UserHandler) BlockFriend(w http.ResponseWriter, r *http.Request) {
	me, err := h.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		UserID string `json:"userId"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	targetID, err := uuid.Parse(body.UserID)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}
	updated, err := h.friends.BlockUser(r.Context(), me, targetID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *UserHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	me, err := h.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	rosters, err := h.groups.GetGroups(r.Context(), me.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": rosters})
}

func (h *UserHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	me, err := h.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		RoomName string `json:"roomName"`
	}
	if err := decodeBody(r, &body); err != nil || body.RoomName == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "roomName is required"})
		return
	}
	rosters, err := h.groups.CreateGroup(r.Context(), me, body.RoomName)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"data": rosters})
}

func (h *UserHandler) AddToGroup(w http.ResponseWriter, r *http.Request) {
	me, err := h.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		RoomID string `json:"roomId"`
		UserID string `json:"userId"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	roomID, err := uuid.Parse(body.RoomID)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid room id"})
		return
	}
	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}
	roster, err := h.groups.AddToGroup(r.Context(), me, roomID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": roster})
}

func (h *UserHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	me, err := h.currentUser(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var body struct {
		RoomID   string `json:"roomId"`
		RoomName string `json:"roomName"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	var roomID *uuid.UUID
	if body.RoomID != "" {
		id, err := uuid.Parse(body.RoomID)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid room id"})
			return
		}
		roomID = &id
	} else if body.RoomName == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "roomId or roomName is required"})
		return
	}
	rosters, err := h.groups.JoinGroup(r.Context(), me, roomID, body.RoomName)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": rosters})
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("handlers - response encoding failed", "error", err)
		}
	}
}

// respondError maps domain sentinels onto the HTTP surface. Anything
// unmapped is an internal error and keeps its detail out of the response.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrAuthFailed):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrFriendRequestNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrNotRoomCreator),
		errors.Is(err, domain.ErrNotRequestAccepter),
		errors.Is(err, domain.ErrNotRoomMember):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrFriendshipExists), errors.Is(err, domain.ErrAlreadyMember):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrSelfFriend),
		errors.Is(err, domain.ErrSelfBlock),
		errors.Is(err, domain.ErrEmptyMessage):
		status, message = http.StatusBadRequest, err.Error()
	}

	respondJSON(w, status, map[string]string{"error": message})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/savlagood/friendgraph/internal/graph"
	"github.com/savlagood/friendgraph/internal/logging"
	"github.com/savlagood/friendgraph/internal/models"
	"github.com/savlagood/friendgraph/internal/repositories"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondDetail(ctx context.Context, w http.ResponseWriter, status int, detail string) {
	respondJSON(ctx, w, status, errorResponse{Detail: detail})
}

func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondError maps engine and store failures onto HTTP responses.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		respondDetail(ctx, w, http.StatusNotFound, "not found")
	case errors.Is(err, graph.ErrSelfRequest):
		respondDetail(ctx, w, http.StatusBadRequest, "user cannot send a friend request to themselves")
	case errors.Is(err, graph.ErrInvalidOperation):
		respondDetail(ctx, w, http.StatusBadRequest, "invalid operation")
	case errors.Is(err, graph.ErrAlreadyFriends):
		respondDetail(ctx, w, http.StatusConflict, "users are already friends")
	case errors.Is(err, graph.ErrConflict):
		respondDetail(ctx, w, http.StatusConflict, "conflict")
	case errors.Is(err, context.DeadlineExceeded):
		logging.FromContext(ctx).Error("request deadline exceeded", "error", err)
		respondDetail(ctx, w, http.StatusServiceUnavailable, "request timed out")
	default:
		logging.FromContext(ctx).Error("unexpected failure", "error", err)
		respondDetail(ctx, w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses a positive numeric path variable. Malformed identifiers cannot
// name an existing record and are reported as not found.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, repositories.ErrNotFound
	}
	return id, nil
}

// resolveUser turns the named path variable into an existing user.
func resolveUser(ctx context.Context, users UserStore, r *http.Request, name string) (models.User, error) {
	id, err := pathID(r, name)
	if err != nil {
		return models.User{}, err
	}
	return users.GetUser(ctx, id)
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type friendRequestResponse struct {
	ID       int64 `json:"id"`
	FromUser int64 `json:"from_user"`
	ToUser   int64 `json:"to_user"`
}

type profileResponse struct {
	ID               int64                   `json:"id"`
	Username         string                  `json:"username"`
	Friends          []userResponse          `json:"friends"`
	OutgoingRequests []friendRequestResponse `json:"outgoing_requests"`
	IncomingRequests []friendRequestResponse `json:"incoming_requests"`
}

type statusResponse struct {
	Status models.Relationship `json:"status"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

func toUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toFriendRequestResponse(r models.FriendRequest) friendRequestResponse {
	return friendRequestResponse{ID: r.ID, FromUser: r.FromUser, ToUser: r.ToUser}
}

func toFriendRequestResponses(requests []models.FriendRequest) []friendRequestResponse {
	out := make([]friendRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toFriendRequestResponse(r))
	}
	return out
}

func toProfileResponse(p models.UserProfile) profileResponse {
	return profileResponse{
		ID:               p.User.ID,
		Username:         p.User.Username,
		Friends:          toUserResponses(p.Friends),
		OutgoingRequests: toFriendRequestResponses(p.OutgoingRequests),
		IncomingRequests: toFriendRequestResponses(p.IncomingRequests),
	}
}

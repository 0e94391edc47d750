package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/savlagood/friendgraph/internal/logging"
	"github.com/savlagood/friendgraph/internal/models"
)

// UserHandler implements user listing, creation, lookup and deletion.
type UserHandler struct {
	Users UserStore
	Graph RelationshipEngine
}

type createUserRequest struct {
	Username string `json:"username"`
}

func (h UserHandler) ready(w http.ResponseWriter, r *http.Request) bool {
	if h.Users == nil || h.Graph == nil {
		logging.FromContext(r.Context()).Error("user handler dependencies unavailable", "hasUsers", h.Users != nil, "hasGraph", h.Graph != nil)
		respondDetail(r.Context(), w, http.StatusInternalServerError, "user services unavailable")
		return false
	}
	return true
}

// List handles GET /api/v1/users.
func (h UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	users, err := h.Users.ListUsers(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, toUserResponses(users))
}

// Create handles POST /api/v1/users.
func (h UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create user payload", "error", err)
		respondDetail(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		respondDetail(ctx, w, http.StatusBadRequest, "username is required")
		return
	}
	if utf8.RuneCountInString(req.Username) > models.MaxUsernameLength {
		respondDetail(ctx, w, http.StatusBadRequest, "username is too long")
		return
	}

	user, err := h.Users.CreateUser(ctx, req.Username)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info("user created", "userId", user.ID)
	respondJSON(ctx, w, http.StatusCreated, toProfileResponse(models.UserProfile{User: user}))
}

// Get handles GET /api/v1/users/{userID}.
func (h UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	user, err := resolveUser(ctx, h.Users, r, "userID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	profile, err := h.Graph.Profile(ctx, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, toProfileResponse(profile))
}

// Delete handles DELETE /api/v1/users/{userID}.
func (h UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	user, err := resolveUser(ctx, h.Users, r, "userID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Graph.DeleteUser(ctx, user); err != nil {
		respondError(ctx, w, err)
		return
	}

	logging.FromContext(ctx).Info("user deleted", "userId", user.ID)
	respondNoContent(w)
}

package handlers

import (
	"net/http"

	"github.com/savlagood/friendgraph/internal/logging"
)

// FriendHandler exposes friend listing, unfriending and relationship status.
type FriendHandler struct {
	Users UserStore
	Graph RelationshipEngine
}

func (h FriendHandler) ready(w http.ResponseWriter, r *http.Request) bool {
	if h.Users == nil || h.Graph == nil {
		logging.FromContext(r.Context()).Error("friend handler dependencies unavailable", "hasUsers", h.Users != nil, "hasGraph", h.Graph != nil)
		respondDetail(r.Context(), w, http.StatusInternalServerError, "friend services unavailable")
		return false
	}
	return true
}

// List handles GET /api/v1/users/{userID}/friends.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	user, err := resolveUser(ctx, h.Users, r, "userID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	friends, err := h.Graph.FriendsOf(ctx, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, toUserResponses(friends))
}

// Remove handles DELETE /api/v1/users/{userID}/friends/{friendID}. Only the
// request from userID to friendID is deleted.
func (h FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	user, err := resolveUser(ctx, h.Users, r, "userID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	friend, err := resolveUser(ctx, h.Users, r, "friendID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Graph.Unfriend(ctx, user, friend); err != nil {
		respondError(ctx, w, err)
		return
	}

	logging.FromContext(ctx).Info("friend removed", "userId", user.ID, "friendId", friend.ID)
	respondNoContent(w)
}

// Status handles GET /api/v1/users/{userID}/friend_status/{otherID}.
func (h FriendHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	user, err := resolveUser(ctx, h.Users, r, "userID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	other, err := resolveUser(ctx, h.Users, r, "otherID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	status, err := h.Graph.Status(ctx, user, other)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, statusResponse{Status: status})
}

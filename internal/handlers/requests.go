package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/savlagood/friendgraph/internal/logging"
)

// RequestHandler manages outgoing and incoming friend requests. The user in the
// path is resolved but not matched against the request being changed.
type RequestHandler struct {
	Users UserStore
	Graph RelationshipEngine
}

type sendFriendRequestRequest struct {
	UserID int64 `json:"user_id"`
}

func (h RequestHandler) ready(w http.ResponseWriter, r *http.Request) bool {
	if h.Users == nil || h.Graph == nil {
		logging.FromContext(r.Context()).Error("request handler dependencies unavailable", "hasUsers", h.Users != nil, "hasGraph", h.Graph != nil)
		respondDetail(r.Context(), w, http.StatusInternalServerError, "friend request services unavailable")
		return false
	}
	return true
}

// ListOutgoing handles GET /api/v1/users/{userID}/outgoing_requests.
func (h RequestHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	user, err := resolveUser(ctx, h.Users, r, "userID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	requests, err := h.Graph.OutgoingPending(ctx, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, toFriendRequestResponses(requests))
}

// Send handles POST /api/v1/users/{userID}/outgoing_requests. Re-sending an
// existing request returns it with 201 as well.
func (h RequestHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req sendFriendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid friend request payload", "error", err)
		respondDetail(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		respondDetail(ctx, w, http.StatusBadRequest, "user_id is required")
		return
	}

	user, err := resolveUser(ctx, h.Users, r, "userID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	target, err := h.Users.GetUser(ctx, req.UserID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	request, err := h.Graph.SendRequest(ctx, user, target)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info("friend request sent", "requestId", request.ID, "fromUser", user.ID, "toUser", target.ID)
	respondJSON(ctx, w, http.StatusCreated, toFriendRequestResponse(request))
}

// Cancel handles DELETE /api/v1/users/{userID}/outgoing_requests/{requestID}.
func (h RequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	if _, err := resolveUser(ctx, h.Users, r, "userID"); err != nil {
		respondError(ctx, w, err)
		return
	}
	requestID, err := pathID(r, "requestID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Graph.CancelRequest(ctx, requestID); err != nil {
		respondError(ctx, w, err)
		return
	}

	logging.FromContext(ctx).Info("friend request cancelled", "requestId", requestID)
	respondNoContent(w)
}

// ListIncoming handles GET /api/v1/users/{userID}/incoming_requests.
func (h RequestHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	user, err := resolveUser(ctx, h.Users, r, "userID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	requests, err := h.Graph.IncomingPending(ctx, user)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, toFriendRequestResponses(requests))
}

// Accept handles PUT /api/v1/users/{userID}/incoming_requests/{requestID} and
// responds with the newly created reverse request.
func (h RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	if _, err := resolveUser(ctx, h.Users, r, "userID"); err != nil {
		respondError(ctx, w, err)
		return
	}
	requestID, err := pathID(r, "requestID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	accepted, err := h.Graph.AcceptRequest(ctx, requestID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logging.FromContext(ctx).Info("friend request accepted", "requestId", requestID, "reverseRequestId", accepted.ID)
	respondJSON(ctx, w, http.StatusAccepted, toFriendRequestResponse(accepted))
}

// Reject handles DELETE /api/v1/users/{userID}/incoming_requests/{requestID}.
func (h RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	if _, err := resolveUser(ctx, h.Users, r, "userID"); err != nil {
		respondError(ctx, w, err)
		return
	}
	requestID, err := pathID(r, "requestID")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Graph.RejectRequest(ctx, requestID); err != nil {
		respondError(ctx, w, err)
		return
	}

	logging.FromContext(ctx).Info("friend request rejected", "requestId", requestID)
	respondNoContent(w)
}

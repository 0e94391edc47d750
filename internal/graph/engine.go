// Package graph derives friendships from directed friend request edges and
// performs the transitions between relationship states.
//
// A friendship is never stored. Users A and B are friends exactly when the
// request A->B and the request B->A both exist; accepting a request means
// creating the reverse edge, and unfriending removes only the caller's edge.
package graph

import (
	"context"
	"fmt"

	"github.com/savlagood/friendgraph/internal/logging"
	"github.com/savlagood/friendgraph/internal/models"
	"github.com/savlagood/friendgraph/internal/repositories"
)

// Engine answers relationship queries and applies relationship transitions.
// Every operation runs as one atomic unit of the underlying store.
type Engine struct {
	store repositories.Store
}

// NewEngine constructs an Engine over the provided store.
func NewEngine(store repositories.Store) *Engine {
	if store == nil {
		panic("graph: store must not be nil")
	}
	return &Engine{store: store}
}

// atomic runs fn in a store transaction wrapped in a logging span. fn must only
// touch the store through q.
func (e *Engine) atomic(ctx context.Context, name string, fn func(q repositories.Queries) error) error {
	ctx, span := logging.StartSpan(ctx, name)
	err := e.store.Atomic(ctx, fn)
	span.End(err)
	return err
}

// FriendsOf returns every user with a mutual request pair with u, in the order
// u's outgoing requests were created.
func (e *Engine) FriendsOf(ctx context.Context, u models.User) ([]models.User, error) {
	var friends []models.User
	err := e.atomic(ctx, "graph.friends_of", func(q repositories.Queries) error {
		edges, err := loadEdges(ctx, q, u.ID)
		if err != nil {
			return err
		}
		friends, err = edges.friends(ctx, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list friends of user %d: %w", u.ID, err)
	}
	return friends, nil
}

// OutgoingPending returns the requests sent by u that have not been reciprocated.
func (e *Engine) OutgoingPending(ctx context.Context, u models.User) ([]models.FriendRequest, error) {
	var pending []models.FriendRequest
	err := e.atomic(ctx, "graph.outgoing_pending", func(q repositories.Queries) error {
		edges, err := loadEdges(ctx, q, u.ID)
		if err != nil {
			return err
		}
		pending = edges.outgoingPending()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list outgoing requests of user %d: %w", u.ID, err)
	}
	return pending, nil
}

// IncomingPending returns the requests received by u that u has not reciprocated.
func (e *Engine) IncomingPending(ctx context.Context, u models.User) ([]models.FriendRequest, error) {
	var pending []models.FriendRequest
	err := e.atomic(ctx, "graph.incoming_pending", func(q repositories.Queries) error {
		edges, err := loadEdges(ctx, q, u.ID)
		if err != nil {
			return err
		}
		pending = edges.incomingPending()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list incoming requests of user %d: %w", u.ID, err)
	}
	return pending, nil
}

// Profile returns u together with friends and both pending request lists, all
// read from the same consistent view.
func (e *Engine) Profile(ctx context.Context, u models.User) (models.UserProfile, error) {
	profile := models.UserProfile{User: u}
	err := e.atomic(ctx, "graph.profile", func(q repositories.Queries) error {
		edges, err := loadEdges(ctx, q, u.ID)
		if err != nil {
			return err
		}
		profile.Friends, err = edges.friends(ctx, q)
		if err != nil {
			return err
		}
		profile.OutgoingRequests = edges.outgoingPending()
		profile.IncomingRequests = edges.incomingPending()
		return nil
	})
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("load profile of user %d: %w", u.ID, err)
	}
	return profile, nil
}

// SendRequest creates the request from -> to. Sending a request that already
// exists returns the stored request instead of creating a duplicate.
func (e *Engine) SendRequest(ctx context.Context, from, to models.User) (models.FriendRequest, error) {
	if from.ID == to.ID {
		return models.FriendRequest{}, ErrSelfRequest
	}

	var request models.FriendRequest
	err := e.atomic(ctx, "graph.send_request", func(q repositories.Queries) error {
		existing, found, err := findEdge(ctx, q, from.ID, to.ID)
		if err != nil {
			return err
		}
		if found {
			request = existing
			return nil
		}
		request, err = q.CreateRequest(ctx, from.ID, to.ID)
		return err
	})
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("send friend request from %d to %d: %w", from.ID, to.ID, err)
	}
	return request, nil
}

// AcceptRequest accepts the request X -> Y by creating Y -> X and returns the new
// request. The accepted request itself is left untouched. Accepting a request
// whose reverse already exists fails with ErrAlreadyFriends.
func (e *Engine) AcceptRequest(ctx context.Context, requestID int64) (models.FriendRequest, error) {
	var accepted models.FriendRequest
	err := e.atomic(ctx, "graph.accept_request", func(q repositories.Queries) error {
		request, err := q.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}

		_, mutual, err := findEdge(ctx, q, request.ToUser, request.FromUser)
		if err != nil {
			return err
		}
		if mutual {
			return ErrAlreadyFriends
		}

		accepted, err = q.CreateRequest(ctx, request.ToUser, request.FromUser)
		return err
	})
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("accept friend request %d: %w", requestID, err)
	}
	return accepted, nil
}

// RejectRequest deletes an incoming request.
func (e *Engine) RejectRequest(ctx context.Context, requestID int64) error {
	if err := e.deleteRequest(ctx, "graph.reject_request", requestID); err != nil {
		return fmt.Errorf("reject friend request %d: %w", requestID, err)
	}
	return nil
}

// CancelRequest withdraws an outgoing request.
func (e *Engine) CancelRequest(ctx context.Context, requestID int64) error {
	if err := e.deleteRequest(ctx, "graph.cancel_request", requestID); err != nil {
		return fmt.Errorf("cancel friend request %d: %w", requestID, err)
	}
	return nil
}

func (e *Engine) deleteRequest(ctx context.Context, span string, requestID int64) error {
	return e.atomic(ctx, span, func(q repositories.Queries) error {
		return q.DeleteRequest(ctx, requestID)
	})
}

// Unfriend deletes the request a -> b and nothing else. When b -> a exists the
// pair is left with a pending request from b, so Status(a, b) reports an
// incoming request afterwards.
func (e *Engine) Unfriend(ctx context.Context, a, b models.User) error {
	err := e.atomic(ctx, "graph.unfriend", func(q repositories.Queries) error {
		edges, err := q.FindRequests(ctx, repositories.RequestFilter{FromUser: a.ID, ToUser: b.ID})
		if err != nil {
			return err
		}
		if len(edges) == 0 {
			return repositories.ErrNotFound
		}
		for _, edge := range edges {
			if err := q.DeleteRequest(ctx, edge.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unfriend %d from %d: %w", b.ID, a.ID, err)
	}
	return nil
}

// DeleteUser removes u and every request sent or received by u.
func (e *Engine) DeleteUser(ctx context.Context, u models.User) error {
	err := e.atomic(ctx, "graph.delete_user", func(q repositories.Queries) error {
		return q.DeleteUser(ctx, u.ID)
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", u.ID, err)
	}
	return nil
}

// Status reports the relationship of a towards b.
func (e *Engine) Status(ctx context.Context, a, b models.User) (models.Relationship, error) {
	var status models.Relationship
	err := e.atomic(ctx, "graph.status", func(q repositories.Queries) error {
		_, aToB, err := findEdge(ctx, q, a.ID, b.ID)
		if err != nil {
			return err
		}
		_, bToA, err := findEdge(ctx, q, b.ID, a.ID)
		if err != nil {
			return err
		}
		status = models.DeriveRelationship(aToB, bToA)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("relationship of %d towards %d: %w", a.ID, b.ID, err)
	}
	return status, nil
}

func findEdge(ctx context.Context, q repositories.Queries, from, to int64) (models.FriendRequest, bool, error) {
	edges, err := q.FindRequests(ctx, repositories.RequestFilter{FromUser: from, ToUser: to})
	if err != nil {
		return models.FriendRequest{}, false, err
	}
	if len(edges) == 0 {
		return models.FriendRequest{}, false, nil
	}
	return edges[0], true, nil
}

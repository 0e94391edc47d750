package graph

import (
	"context"

	"github.com/savlagood/friendgraph/internal/models"
	"github.com/savlagood/friendgraph/internal/repositories"
)

// userEdges holds every request touching one user, indexed by the other side.
type userEdges struct {
	outgoing []models.FriendRequest
	incoming []models.FriendRequest

	recipients map[int64]struct{} // users the owner sent a request to
	senders    map[int64]struct{} // users who sent the owner a request
}

func loadEdges(ctx context.Context, q repositories.Queries, userID int64) (userEdges, error) {
	outgoing, err := q.FindRequests(ctx, repositories.RequestFilter{FromUser: userID})
	if err != nil {
		return userEdges{}, err
	}
	incoming, err := q.FindRequests(ctx, repositories.RequestFilter{ToUser: userID})
	if err != nil {
		return userEdges{}, err
	}

	edges := userEdges{
		outgoing:   outgoing,
		incoming:   incoming,
		recipients: make(map[int64]struct{}, len(outgoing)),
		senders:    make(map[int64]struct{}, len(incoming)),
	}
	for _, r := range outgoing {
		edges.recipients[r.ToUser] = struct{}{}
	}
	for _, r := range incoming {
		edges.senders[r.FromUser] = struct{}{}
	}
	return edges, nil
}

// friends resolves the targets of reciprocated outgoing requests. Each friend
// appears once even if duplicate edges exist in the store.
func (e userEdges) friends(ctx context.Context, q repositories.Queries) ([]models.User, error) {
	friends := []models.User{}
	seen := make(map[int64]struct{})
	for _, r := range e.outgoing {
		if _, mutual := e.senders[r.ToUser]; !mutual {
			continue
		}
		if _, dup := seen[r.ToUser]; dup {
			continue
		}
		seen[r.ToUser] = struct{}{}

		user, err := q.GetUser(ctx, r.ToUser)
		if err != nil {
			return nil, err
		}
		friends = append(friends, user)
	}
	return friends, nil
}

func (e userEdges) outgoingPending() []models.FriendRequest {
	pending := []models.FriendRequest{}
	for _, r := range e.outgoing {
		if _, mutual := e.senders[r.ToUser]; !mutual {
			pending = append(pending, r)
		}
	}
	return pending
}

func (e userEdges) incomingPending() []models.FriendRequest {
	pending := []models.FriendRequest{}
	for _, r := range e.incoming {
		if _, mutual := e.recipients[r.FromUser]; !mutual {
			pending = append(pending, r)
		}
	}
	return pending
}

// FriendLists derives every user's friends from a complete set of requests.
// Each list follows the order of the user's outgoing requests; users without
// friends are absent from the map.
func FriendLists(requests []models.FriendRequest) map[int64][]int64 {
	type pair struct{ from, to int64 }
	present := make(map[pair]struct{}, len(requests))
	for _, r := range requests {
		present[pair{r.FromUser, r.ToUser}] = struct{}{}
	}

	lists := make(map[int64][]int64)
	listed := make(map[pair]struct{})
	for _, r := range requests {
		if _, mutual := present[pair{r.ToUser, r.FromUser}]; !mutual {
			continue
		}
		key := pair{r.FromUser, r.ToUser}
		if _, dup := listed[key]; dup {
			continue
		}
		listed[key] = struct{}{}
		lists[r.FromUser] = append(lists[r.FromUser], r.ToUser)
	}
	return lists
}

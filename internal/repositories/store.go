package repositories

import (
	"context"

	"github.com/savlagood/friendgraph/internal/models"
)

// RequestFilter selects friend requests by exact match. A zero field matches any user.
type RequestFilter struct {
	FromUser int64
	ToUser   int64
}

// Matches reports whether the request satisfies the filter.
func (f RequestFilter) Matches(request models.FriendRequest) bool {
	if f.FromUser != 0 && request.FromUser != f.FromUser {
		return false
	}
	if f.ToUser != 0 && request.ToUser != f.ToUser {
		return false
	}
	return true
}

// Queries is the data access contract for users and friend request edges.
// Listing operations return records in insertion order.
type Queries interface {
	CreateUser(ctx context.Context, username string) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// DeleteUser removes the user together with every request referencing it.
	DeleteUser(ctx context.Context, id int64) error

	CreateRequest(ctx context.Context, fromUser, toUser int64) (models.FriendRequest, error)
	GetRequest(ctx context.Context, id int64) (models.FriendRequest, error)
	FindRequests(ctx context.Context, filter RequestFilter) ([]models.FriendRequest, error)
	DeleteRequest(ctx context.Context, id int64) error
}

// Store is a Queries implementation that can run a group of queries as one
// atomic unit against a consistent view of the data.
type Store interface {
	Queries
	Atomic(ctx context.Context, fn func(q Queries) error) error
}

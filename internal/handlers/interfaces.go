package handlers

import (
	"context"

	"github.com/savlagood/friendgraph/internal/models"
)

// UserStore captures the user persistence operations the handlers need to
// create users and resolve identifiers before calling the engine.
type UserStore interface {
	CreateUser(ctx context.Context, username string) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// RelationshipEngine derives and changes relationships between resolved users.
type RelationshipEngine interface {
	FriendsOf(ctx context.Context, u models.User) ([]models.User, error)
	OutgoingPending(ctx context.Context, u models.User) ([]models.FriendRequest, error)
	IncomingPending(ctx context.Context, u models.User) ([]models.FriendRequest, error)
	Profile(ctx context.Context, u models.User) (models.UserProfile, error)
	SendRequest(ctx context.Context, from, to models.User) (models.FriendRequest, error)
	AcceptRequest(ctx context.Context, requestID int64) (models.FriendRequest, error)
	RejectRequest(ctx context.Context, requestID int64) error
	CancelRequest(ctx context.Context, requestID int64) error
	Unfriend(ctx context.Context, a, b models.User) error
	DeleteUser(ctx context.Context, u models.User) error
	Status(ctx context.Context, a, b models.User) (models.Relationship, error)
}

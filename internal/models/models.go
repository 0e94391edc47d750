package models

import "time"

// User represents an account within the friend graph.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// FriendRequest is a directed edge from one user to another. Two opposite
// requests between the same pair of users make them friends.
type FriendRequest struct {
	ID        int64
	FromUser  int64
	ToUser    int64
	CreatedAt time.Time
}

// Relationship describes how one user relates to another. It is derived from
// the request edges and never stored.
type Relationship string

const (
	RelationshipFriends  Relationship = "friends"
	RelationshipOutgoing Relationship = "outgoing request"
	RelationshipIncoming Relationship = "incoming request"
	RelationshipNothing  Relationship = "nothing"
)

// DeriveRelationship maps the presence of the two directed edges between A and B
// onto the relationship as seen from A.
func DeriveRelationship(aToB, bToA bool) Relationship {
	switch {
	case aToB && bToA:
		return RelationshipFriends
	case aToB:
		return RelationshipOutgoing
	case bToA:
		return RelationshipIncoming
	default:
		return RelationshipNothing
	}
}

// UserProfile groups a user with their friends and pending requests.
type UserProfile struct {
	User             User
	Friends          []User
	OutgoingRequests []FriendRequest
	IncomingRequests []FriendRequest
}

// MaxUsernameLength bounds the accepted username size.
const MaxUsernameLength = 512

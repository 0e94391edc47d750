package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation indicates a request that can never succeed, such as befriending oneself.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrConflict indicates the operation would duplicate an existing relationship.
	ErrConflict = errors.New("conflict")

	ErrSelfRequest    = fmt.Errorf("%w: user cannot send a friend request to themselves", ErrInvalidOperation)
	ErrAlreadyFriends = fmt.Errorf("%w: users are already friends", ErrConflict)
)

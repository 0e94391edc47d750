package repositories

import "errors"

var (
	// ErrNotFound indicates the requested user or friend request does not exist.
	ErrNotFound = errors.New("record not found")
)

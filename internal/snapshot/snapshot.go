// Package snapshot exports a consistent copy of the whole friend graph.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/savlagood/friendgraph/internal/graph"
	"github.com/savlagood/friendgraph/internal/logging"
	"github.com/savlagood/friendgraph/internal/repositories"
)

// ErrObjectStoreUnavailable indicates no object store was configured for exports.
var ErrObjectStoreUnavailable = errors.New("snapshot object store unavailable")

// ObjectStore persists exported snapshot documents.
type ObjectStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// Snapshot is the exported document.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Users       []User    `json:"users"`
	Requests    []Request `json:"requests"`
}

// User is a user with the identifiers of their friends.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Friends  []int64 `json:"friends"`
}

// Request is one directed friend request edge.
type Request struct {
	ID       int64 `json:"id"`
	FromUser int64 `json:"from_user"`
	ToUser   int64 `json:"to_user"`
}

// Build reads every user and request in one atomic unit and assembles a snapshot.
func Build(ctx context.Context, store repositories.Store, generatedAt time.Time) (Snapshot, error) {
	snap := Snapshot{GeneratedAt: generatedAt.UTC()}

	// fn may be retried, so results are only published once it succeeds.
	err := store.Atomic(ctx, func(q repositories.Queries) error {
		users, err := q.ListUsers(ctx)
		if err != nil {
			return err
		}
		requests, err := q.FindRequests(ctx, repositories.RequestFilter{})
		if err != nil {
			return err
		}

		friends := graph.FriendLists(requests)
		outUsers := make([]User, 0, len(users))
		for _, u := range users {
			ids := friends[u.ID]
			if ids == nil {
				ids = []int64{}
			}
			outUsers = append(outUsers, User{ID: u.ID, Username: u.Username, Friends: ids})
		}
		outRequests := make([]Request, 0, len(requests))
		for _, r := range requests {
			outRequests = append(outRequests, Request{ID: r.ID, FromUser: r.FromUser, ToUser: r.ToUser})
		}

		snap.Users, snap.Requests = outUsers, outRequests
		return nil
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("build snapshot: %w", err)
	}
	return snap, nil
}

// Exporter uploads snapshots to an object store.
type Exporter struct {
	Store   repositories.Store
	Objects ObjectStore
	Prefix  string
	NowFunc func() time.Time
}

// Export builds a snapshot, uploads it as JSON and returns the object location.
func (e Exporter) Export(ctx context.Context) (string, error) {
	if e.Objects == nil {
		return "", ErrObjectStoreUnavailable
	}

	ctx, span := logging.StartSpan(ctx, "snapshot.export")
	location, err := e.export(ctx)
	span.End(err)
	return location, err
}

func (e Exporter) export(ctx context.Context) (string, error) {
	now := e.now()
	snap, err := Build(ctx, e.Store, now)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := path.Join(e.Prefix, now.Format("20060102T150405Z")+".json")
	location, err := e.Objects.Save(ctx, key, "application/json", &buf)
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	logging.FromContext(ctx).Info("snapshot exported",
		"location", location,
		"users", len(snap.Users),
		"requests", len(snap.Requests),
	)
	return location, nil
}

func (e Exporter) now() time.Time {
	if e.NowFunc != nil {
		return e.NowFunc().UTC()
	}
	return time.Now().UTC()
}

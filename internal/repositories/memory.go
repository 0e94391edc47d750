package repositories

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/savlagood/friendgraph/internal/models"
)

// NewInMemoryStore returns a Store backed by in-process slices.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// InMemoryStore implements Store for tests and local development. Atomic holds
// the store lock for the whole callback and restores the previous state if the
// callback fails.
type InMemoryStore struct {
	mu    sync.Mutex
	state memoryState
}

type memoryState struct {
	users         []models.User
	requests      []models.FriendRequest
	lastUserID    int64
	lastRequestID int64
}

func (s memoryState) clone() memoryState {
	s.users = slices.Clone(s.users)
	s.requests = slices.Clone(s.requests)
	return s
}

// memoryQueries operates on the state of an already locked store.
type memoryQueries struct {
	state *memoryState
	now   func() time.Time
}

// Atomic runs fn while holding the store lock.
func (s *InMemoryStore) Atomic(ctx context.Context, fn func(q Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.state.clone()
	if err := fn(s.queries()); err != nil {
		s.state = saved
		return err
	}
	return nil
}

func (s *InMemoryStore) queries() memoryQueries {
	return memoryQueries{state: &s.state, now: func() time.Time { return time.Now().UTC() }}
}

// CreateUser stores a new user and assigns its identifier.
func (s *InMemoryStore) CreateUser(ctx context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries().CreateUser(ctx, username)
}

// GetUser fetches a user by identifier.
func (s *InMemoryStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries().GetUser(ctx, id)
}

// ListUsers returns every user in creation order.
func (s *InMemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries().ListUsers(ctx)
}

// DeleteUser removes a user and the requests referencing it.
func (s *InMemoryStore) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries().DeleteUser(ctx, id)
}

// CreateRequest stores a new directed friend request.
func (s *InMemoryStore) CreateRequest(ctx context.Context, fromUser, toUser int64) (models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries().CreateRequest(ctx, fromUser, toUser)
}

// GetRequest fetches a friend request by identifier.
func (s *InMemoryStore) GetRequest(ctx context.Context, id int64) (models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries().GetRequest(ctx, id)
}

// FindRequests returns the requests matching filter in creation order.
func (s *InMemoryStore) FindRequests(ctx context.Context, filter RequestFilter) ([]models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries().FindRequests(ctx, filter)
}

// DeleteRequest removes a friend request.
func (s *InMemoryStore) DeleteRequest(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries().DeleteRequest(ctx, id)
}

func (q memoryQueries) CreateUser(_ context.Context, username string) (models.User, error) {
	q.state.lastUserID++
	user := models.User{ID: q.state.lastUserID, Username: username, CreatedAt: q.now()}
	q.state.users = append(q.state.users, user)
	return user, nil
}

func (q memoryQueries) GetUser(_ context.Context, id int64) (models.User, error) {
	idx := slices.IndexFunc(q.state.users, func(u models.User) bool { return u.ID == id })
	if idx < 0 {
		return models.User{}, ErrNotFound
	}
	return q.state.users[idx], nil
}

func (q memoryQueries) ListUsers(context.Context) ([]models.User, error) {
	return slices.Clone(q.state.users), nil
}

func (q memoryQueries) DeleteUser(_ context.Context, id int64) error {
	idx := slices.IndexFunc(q.state.users, func(u models.User) bool { return u.ID == id })
	if idx < 0 {
		return ErrNotFound
	}
	q.state.users = slices.Delete(q.state.users, idx, idx+1)
	q.state.requests = slices.DeleteFunc(q.state.requests, func(r models.FriendRequest) bool {
		return r.FromUser == id || r.ToUser == id
	})
	return nil
}

func (q memoryQueries) CreateRequest(ctx context.Context, fromUser, toUser int64) (models.FriendRequest, error) {
	// Mirrors the foreign keys of the SQL schema.
	if _, err := q.GetUser(ctx, fromUser); err != nil {
		return models.FriendRequest{}, err
	}
	if _, err := q.GetUser(ctx, toUser); err != nil {
		return models.FriendRequest{}, err
	}

	q.state.lastRequestID++
	request := models.FriendRequest{
		ID:        q.state.lastRequestID,
		FromUser:  fromUser,
		ToUser:    toUser,
		CreatedAt: q.now(),
	}
	q.state.requests = append(q.state.requests, request)
	return request, nil
}

func (q memoryQueries) GetRequest(_ context.Context, id int64) (models.FriendRequest, error) {
	idx := slices.IndexFunc(q.state.requests, func(r models.FriendRequest) bool { return r.ID == id })
	if idx < 0 {
		return models.FriendRequest{}, ErrNotFound
	}
	return q.state.requests[idx], nil
}

func (q memoryQueries) FindRequests(_ context.Context, filter RequestFilter) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, request := range q.state.requests {
		if filter.Matches(request) {
			out = append(out, request)
		}
	}
	return out, nil
}

func (q memoryQueries) DeleteRequest(_ context.Context, id int64) error {
	idx := slices.IndexFunc(q.state.requests, func(r models.FriendRequest) bool { return r.ID == id })
	if idx < 0 {
		return ErrNotFound
	}
	q.state.requests = slices.Delete(q.state.requests, idx, idx+1)
	return nil
}

var _ Store = (*InMemoryStore)(nil)
var _ Queries = memoryQueries{}

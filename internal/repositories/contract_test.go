package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savlagood/friendgraph/internal/models"
)

// runStoreContract exercises behaviour every Store implementation must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("users round trip in creation order", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		andrew, err := store.CreateUser(ctx, "andrew")
		require.NoError(t, err)
		pavel, err := store.CreateUser(ctx, "pavel")
		require.NoError(t, err)
		assert.NotZero(t, andrew.ID)
		assert.NotEqual(t, andrew.ID, pavel.ID)
		assert.False(t, andrew.CreatedAt.IsZero())

		got, err := store.GetUser(ctx, pavel.ID)
		require.NoError(t, err)
		assert.Equal(t, "pavel", got.Username)

		users, err := store.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, []string{"andrew", "pavel"}, []string{users[0].Username, users[1].Username})
	})

	t.Run("missing records report not found", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		_, err := store.GetUser(ctx, 987654)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.GetRequest(ctx, 987654)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.DeleteUser(ctx, 987654), ErrNotFound)
		assert.ErrorIs(t, store.DeleteRequest(ctx, 987654), ErrNotFound)

		u, err := store.CreateUser(ctx, "solo")
		require.NoError(t, err)
		_, err = store.CreateRequest(ctx, u.ID, 987654)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find requests filters and keeps insertion order", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		a, b, c := mustUser(t, store, "a"), mustUser(t, store, "b"), mustUser(t, store, "c")

		ab := mustRequest(t, store, a, b)
		ca := mustRequest(t, store, c, a)
		ac := mustRequest(t, store, a, c)
		ba := mustRequest(t, store, b, a)

		all, err := store.FindRequests(ctx, RequestFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{ab.ID, ca.ID, ac.ID, ba.ID}, requestIDs(all))

		fromA, err := store.FindRequests(ctx, RequestFilter{FromUser: a.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{ab.ID, ac.ID}, requestIDs(fromA))

		toA, err := store.FindRequests(ctx, RequestFilter{ToUser: a.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{ca.ID, ba.ID}, requestIDs(toA))

		pair, err := store.FindRequests(ctx, RequestFilter{FromUser: b.ID, ToUser: a.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{ba.ID}, requestIDs(pair))

		none, err := store.FindRequests(ctx, RequestFilter{FromUser: b.ID, ToUser: c.ID})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("deleting a user cascades to its requests", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		a, b, c := mustUser(t, store, "a"), mustUser(t, store, "b"), mustUser(t, store, "c")
		mustRequest(t, store, a, b)
		mustRequest(t, store, b, a)
		bc := mustRequest(t, store, b, c)
		ca := mustRequest(t, store, c, a)

		require.NoError(t, store.DeleteUser(ctx, a.ID))

		remaining, err := store.FindRequests(ctx, RequestFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{bc.ID}, requestIDs(remaining))
		_, err = store.GetRequest(ctx, ca.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("atomic commits on success", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		a, b := mustUser(t, store, "a"), mustUser(t, store, "b")

		err := store.Atomic(ctx, func(q Queries) error {
			if _, err := q.CreateRequest(ctx, a.ID, b.ID); err != nil {
				return err
			}
			_, err := q.CreateRequest(ctx, b.ID, a.ID)
			return err
		})
		require.NoError(t, err)

		all, err := store.FindRequests(ctx, RequestFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("atomic rolls back on error", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		a, b := mustUser(t, store, "a"), mustUser(t, store, "b")
		boom := errors.New("boom")

		err := store.Atomic(ctx, func(q Queries) error {
			if _, err := q.CreateRequest(ctx, a.ID, b.ID); err != nil {
				return err
			}
			if err := q.DeleteUser(ctx, b.ID); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		all, err := store.FindRequests(ctx, RequestFilter{})
		require.NoError(t, err)
		assert.Empty(t, all)
		_, err = store.GetUser(ctx, b.ID)
		assert.NoError(t, err)
	})
}

func mustUser(t *testing.T, store Store, username string) models.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), username)
	require.NoError(t, err)
	return u
}

func mustRequest(t *testing.T, store Store, from, to models.User) models.FriendRequest {
	t.Helper()
	r, err := store.CreateRequest(context.Background(), from.ID, to.ID)
	require.NoError(t, err)
	return r
}

func requestIDs(requests []models.FriendRequest) []int64 {
	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	return ids
}

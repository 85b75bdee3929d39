// Package storagetest checks that a userapi.UserStorage implementation
// behaves the way the user service expects.
package storagetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lborres/userapi"
)

// Backend describes the store under test.
type Backend struct {
	// Open returns an empty store. It is called once per subtest.
	Open func(t *testing.T) userapi.UserStorage

	// MalformedID cannot be parsed into the store's key type
	MalformedID string
	// UnknownID is well formed but never assigned
	UnknownID string
}

func strPtr(s string) *string { return &s }

// Run exercises every UserStorage operation against b.
func Run(t *testing.T, b Backend) {
	t.Helper()

	t.Run("insert then get", func(t *testing.T) {
		store := b.Open(t)
		ctx := context.Background()

		id, err := store.InsertUser(ctx, &userapi.User{Name: "Ann", Email: "ann@x.io", Password: "hash"})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		got, err := store.GetUserByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, &userapi.User{ID: id, Name: "Ann", Email: "ann@x.io", Password: "hash"}, got)
	})

	t.Run("ids are unique", func(t *testing.T) {
		store := b.Open(t)
		seen := make(map[string]bool)
		for _, id := range seed(t, store, 5) {
			assert.False(t, seen[id], "duplicate id %q", id)
			seen[id] = true
		}
	})

	t.Run("list follows insertion order", func(t *testing.T) {
		store := b.Open(t)
		ids := seed(t, store, 4)

		users, err := store.ListUsers(context.Background(), 3)
		require.NoError(t, err)
		require.Len(t, users, 3)
		for i, u := range users {
			assert.Equal(t, ids[i], u.ID)
		}
	})

	t.Run("update applies supplied fields only", func(t *testing.T) {
		store := b.Open(t)
		ctx := context.Background()
		id := seed(t, store, 1)[0]

		require.NoError(t, store.UpdateUser(ctx, id, userapi.UserPatch{Name: strPtr("renamed")}))
		// the same values again still match
		require.NoError(t, store.UpdateUser(ctx, id, userapi.UserPatch{Name: strPtr("renamed")}))

		got, err := store.GetUserByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Name)
		assert.Equal(t, "user0@x.io", got.Email)
		assert.Equal(t, "hash0", got.Password)
	})

	t.Run("delete is not repeatable", func(t *testing.T) {
		store := b.Open(t)
		ctx := context.Background()
		id := seed(t, store, 1)[0]

		require.NoError(t, store.DeleteUser(ctx, id))
		assert.ErrorIs(t, store.DeleteUser(ctx, id), userapi.ErrUserNotFound)
		_, err := store.GetUserByID(ctx, id)
		assert.ErrorIs(t, err, userapi.ErrUserNotFound)
	})

	t.Run("malformed and unknown ids", func(t *testing.T) {
		store := b.Open(t)
		ctx := context.Background()
		patch := userapi.UserPatch{Name: strPtr("x")}

		_, err := store.GetUserByID(ctx, b.MalformedID)
		assert.ErrorIs(t, err, userapi.ErrInvalidID)
		assert.ErrorIs(t, store.UpdateUser(ctx, b.MalformedID, patch), userapi.ErrInvalidID)
		assert.ErrorIs(t, store.DeleteUser(ctx, b.MalformedID), userapi.ErrInvalidID)

		_, err = store.GetUserByID(ctx, b.UnknownID)
		assert.ErrorIs(t, err, userapi.ErrUserNotFound)
		assert.ErrorIs(t, store.UpdateUser(ctx, b.UnknownID, patch), userapi.ErrUserNotFound)
		assert.ErrorIs(t, store.DeleteUser(ctx, b.UnknownID), userapi.ErrUserNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		store := b.Open(t)
		assert.NoError(t, store.Ping(context.Background()))
	})
}

func seed(t *testing.T, store userapi.UserStorage, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := store.InsertUser(context.Background(), &userapi.User{
			Name:     fmt.Sprintf("user%d", i),
			Email:    fmt.Sprintf("user%d@x.io", i),
			Password: fmt.Sprintf("hash%d", i),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"authgate/internal/common"
	"authgate/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testUserRepositoryContract runs the behaviour every UserRepository must have.
func testUserRepositoryContract(t *testing.T, newRepo func(t *testing.T) UserRepository) {
	t.Run("create assigns id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		u := &model.User{Username: "alice", Email: "a@x.com", HashedPassword: "hash"}

		require.NoError(t, repo.Create(context.Background(), u))
		assert.NotEmpty(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())

		got, err := repo.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "a@x.com", got.Email)
		assert.Equal(t, "hash", got.HashedPassword)
	})

	t.Run("find missing", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindByUsername(context.Background(), "nobody")
		assert.ErrorIs(t, err, common.ErrNotFound)

		_, err = repo.FindByUsernameOrEmail(context.Background(), "nobody", "nobody@x.com")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("find by username or email", func(t *testing.T) {
		repo := newRepo(t)
		u := &model.User{Username: "bob", Email: "b@x.com", HashedPassword: "hash"}
		require.NoError(t, repo.Create(context.Background(), u))

		got, err := repo.FindByUsernameOrEmail(context.Background(), "bob", "other@x.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		got, err = repo.FindByUsernameOrEmail(context.Background(), "other", "b@x.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("login lookup ignores email", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(context.Background(), &model.User{Username: "carol", Email: "c@x.com"}))

		_, err := repo.FindByUsername(context.Background(), "c@x.com")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("duplicate username or email", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(context.Background(), &model.User{Username: "dave", Email: "d@x.com"}))

		err := repo.Create(context.Background(), &model.User{Username: "dave", Email: "other@x.com"})
		assert.ErrorIs(t, err, common.ErrConflict)

		err = repo.Create(context.Background(), &model.User{Username: "other", Email: "d@x.com"})
		assert.ErrorIs(t, err, common.ErrConflict)

		_, err = repo.FindByUsername(context.Background(), "other")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("concurrent creates with same username", func(t *testing.T) {
		repo := newRepo(t)

		const n = 16
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- repo.Create(context.Background(), &model.User{
					Username: "erin",
					Email:    fmt.Sprintf("e%d@x.com", i),
				})
			}(i)
		}
		wg.Wait()
		close(errs)

		created := 0
		for err := range errs {
			if err == nil {
				created++
				continue
			}
			assert.ErrorIs(t, err, common.ErrConflict)
		}
		assert.Equal(t, 1, created)
	})
}

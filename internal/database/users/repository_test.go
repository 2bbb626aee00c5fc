package users

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shelfmark/shelfmark/internal/database"
)

func setupTestRepo(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()

	dbPath := "./test_users_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), db.DB, cleanup
}

func TestCreate(t *testing.T) {
	t.Run("returns the generated id", func(t *testing.T) {
		repo, _, cleanup := setupTestRepo(t)
		defer cleanup()

		user, err := repo.Create("alice", "hash")

		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("duplicate username maps to ErrUsernameTaken", func(t *testing.T) {
		repo, _, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.Create("alice", "hash")
		require.NoError(t, err)

		_, err = repo.Create("alice", "other-hash")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		repo, _, cleanup := setupTestRepo(t)
		defer cleanup()

		created, err := repo.Create("alice", "hash")
		require.NoError(t, err)

		found, err := repo.GetByID(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
		assert.Equal(t, "hash", found.PasswordHash)
	})

	t.Run("unknown id yields ErrNotFound", func(t *testing.T) {
		repo, _, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.GetByID(42)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetByUsername(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		repo, _, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.Create("bob", "hash")
		require.NoError(t, err)

		found, err := repo.GetByUsername("bob")
		require.NoError(t, err)
		assert.Equal(t, "bob", found.Username)
	})

	t.Run("unknown username yields ErrNotFound", func(t *testing.T) {
		repo, _, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.GetByUsername("nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUsernameTaken(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	taken, err := repo.UsernameTaken("carol")
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = repo.Create("carol", "hash")
	require.NoError(t, err)

	taken, err = repo.UsernameTaken("carol")
	require.NoError(t, err)
	assert.True(t, taken)
}

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financebook/financebook/internal/common"
	"github.com/financebook/financebook/internal/storage"
)

func createTestService(t *testing.T) (*Service, *storage.SQLiteStorage) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(t.TempDir() + "/auth_test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	return NewService(store), store
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "s3cret "))
	assert.False(t, CheckPassword("not a bcrypt hash", "s3cret"))

	// Same password hashes to different strings each time.
	other, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		svc, store := createTestService(t)

		user, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Positive(t, user.ID)
		assert.NotEqual(t, "hunter2", user.PasswordHash)

		stored, err := store.GetUser(ctx, user.ID, "")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "alice", stored.Username)
		assert.True(t, CheckPassword(stored.PasswordHash, "hunter2"))
	})

	t.Run("trims whitespace from username and email", func(t *testing.T) {
		svc, _ := createTestService(t)

		user, err := svc.Register(ctx, "  bob  ", " bob@example.com ", "pw")
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
		assert.Equal(t, "bob@example.com", user.Email)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc, _ := createTestService(t)

		for _, args := range [][3]string{
			{"", "a@x.com", "pw"},
			{"alice", "", "pw"},
			{"alice", "a@x.com", ""},
			{"   ", "a@x.com", "pw"},
		} {
			_, err := svc.Register(ctx, args[0], args[1], args[2])
			assert.ErrorIs(t, err, common.ErrValidation)
		}
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		svc, _ := createTestService(t)

		_, err := svc.Register(ctx, "alice", "not-an-email", "pw")
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("duplicate username surfaces as user error", func(t *testing.T) {
		svc, _ := createTestService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice", "other@example.com", "pw")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrDuplicateEntry)
		assert.Equal(t, "username or email already registered", common.UserMessage(err))
	})

	t.Run("duplicate email surfaces as user error", func(t *testing.T) {
		svc, _ := createTestService(t)

		_, err := svc.Register(ctx, "alice", "shared@example.com", "pw")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "bob", "shared@example.com", "pw")
		assert.ErrorIs(t, err, common.ErrDuplicateEntry)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		svc, store := createTestService(t)

		registered, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2")
		require.NoError(t, err)

		user, err := svc.Login(ctx, "alice", "hunter2")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotNil(t, user.LastLogin)

		stored, err := store.GetUser(ctx, user.ID, "")
		require.NoError(t, err)
		require.NotNil(t, stored.LastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := createTestService(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})

	t.Run("unknown user yields the same error as a wrong password", func(t *testing.T) {
		svc, _ := createTestService(t)

		_, err := svc.Login(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})
}

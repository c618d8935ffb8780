package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/storage"
)

func newTestStore(t *testing.T) *storage.FileStore {
	t.Helper()
	dir := t.TempDir()
	logger := internal.NewZapLogger(zap.NewNop().Sugar())
	store, err := storage.NewFileStore(
		filepath.Join(dir, "users.json"),
		filepath.Join(dir, "sleep.json"),
		filepath.Join(dir, "logs.json"),
		logger,
	)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestRegisterCreatesActiveUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, appErr := Register(ctx, store, &RegisterRequest{Name: "A", Email: "A@X.com", Password: "p12345"})
	require.Nil(t, appErr)
	assert.True(t, user.IsActive)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "p12345", user.PasswordHash)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, appErr := Register(ctx, store, &RegisterRequest{Name: "A", Email: "a@x.com", Password: "p12345"})
	require.Nil(t, appErr)

	// same email, different password and case
	_, appErr = Register(ctx, store, &RegisterRequest{Name: "B", Email: "A@x.COM", Password: "other-pass"})
	require.NotNil(t, appErr)
	assert.Equal(t, internal.KindConflict, appErr.Kind)
	assert.Equal(t, "User already exists with this email", appErr.Message)
}

func TestRegisterValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, appErr := Register(ctx, store, &RegisterRequest{Name: "A", Email: "not-an-email", Password: "short"})
	require.NotNil(t, appErr)
	assert.Equal(t, internal.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 2)
}

func TestLoginSuccess(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, appErr := Register(ctx, store, &RegisterRequest{Name: "A", Email: "a@x.com", Password: "p12345"})
	require.Nil(t, appErr)

	user, appErr := Login(ctx, store, &LoginRequest{Email: "a@x.com", Password: "p12345"})
	require.Nil(t, appErr)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestLoginNoExistenceLeak(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, appErr := Register(ctx, store, &RegisterRequest{Name: "A", Email: "a@x.com", Password: "p12345"})
	require.Nil(t, appErr)

	_, wrongPass := Login(ctx, store, &LoginRequest{Email: "a@x.com", Password: "wrong"})
	require.NotNil(t, wrongPass)
	_, noUser := Login(ctx, store, &LoginRequest{Email: "nobody@x.com", Password: "p12345"})
	require.NotNil(t, noUser)

	assert.Equal(t, wrongPass.Kind, noUser.Kind)
	assert.Equal(t, wrongPass.Message, noUser.Message)
	assert.Equal(t, "Invalid credentials", noUser.Message)
}

func TestLoginMissingFields(t *testing.T) {
	store := newTestStore(t)

	_, appErr := Login(context.Background(), store, &LoginRequest{Email: "a@x.com"})
	require.NotNil(t, appErr)
	assert.Equal(t, internal.KindBadRequest, appErr.Kind)
	assert.Equal(t, "Please provide email and password", appErr.Message)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, appErr := Register(ctx, store, &RegisterRequest{Name: "A", Email: "a@x.com", Password: "p12345"})
	require.Nil(t, appErr)

	user.IsActive = false
	require.NoError(t, store.UpdateUser(ctx, user))

	_, appErr = Login(ctx, store, &LoginRequest{Email: "a@x.com", Password: "p12345"})
	require.NotNil(t, appErr)
	assert.Equal(t, internal.KindUnauthorized, appErr.Kind)
	assert.Equal(t, "Account is deactivated", appErr.Message)
}

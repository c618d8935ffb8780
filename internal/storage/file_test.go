package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrcadm/sleeptracker/internal"
)

type storePaths struct {
	users, sleep, logs string
}

func newPaths(t *testing.T) storePaths {
	t.Helper()
	dir := t.TempDir()
	return storePaths{
		users: filepath.Join(dir, "users.json"),
		sleep: filepath.Join(dir, "sleep.json"),
		logs:  filepath.Join(dir, "logs.json"),
	}
}

func openStore(t *testing.T, p storePaths) *FileStore {
	t.Helper()
	store, err := NewFileStore(p.users, p.sleep, p.logs, internal.NewZapLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	return store
}

func sampleUser(id, email string) *internal.User {
	now := time.Now().UTC()
	return &internal.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := openStore(t, newPaths(t))
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, sampleUser("u1", "a@x.com")))
	err := store.CreateUser(ctx, sampleUser("u2", "a@x.com"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserLookups(t *testing.T) {
	store := openStore(t, newPaths(t))
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, sampleUser("u1", "a@x.com")))

	byEmail, err := store.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)
	assert.NotEmpty(t, byEmail.PasswordHash)

	byID, err := store.UserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	_, err = store.UserByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.UserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	store := openStore(t, newPaths(t))
	defer store.Close()
	ctx := context.Background()

	user := sampleUser("u1", "a@x.com")
	require.NoError(t, store.CreateUser(ctx, user))

	user.IsActive = false
	require.NoError(t, store.UpdateUser(ctx, user))

	got, err := store.UserByID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, store.UpdateUser(ctx, sampleUser("missing", "m@x.com")), ErrNotFound)
}

func TestEntriesPersistAcrossReload(t *testing.T) {
	paths := newPaths(t)
	store := openStore(t, paths)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, sampleUser("u1", "a@x.com")))
	entry := &internal.SleepEntry{
		ID:        "e1",
		UserID:    "u1",
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		Duration:  480,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateEntry(ctx, entry))
	store.Close() // flushes before returning

	reloaded := openStore(t, paths)
	defer reloaded.Close()

	entries, err := reloaded.ListEntries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 480, entries[0].Duration)

	user, err := reloaded.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestCloseFlushesPendingWrites(t *testing.T) {
	paths := newPaths(t)
	store := openStore(t, paths)

	require.NoError(t, store.CreateUser(context.Background(), sampleUser("u1", "a@x.com")))
	store.Close()

	// the users file must be on disk the moment Close returns
	_, err := os.Stat(paths.users)
	require.NoError(t, err)

	var users []*internal.User
	require.NoError(t, readJSONFile(paths.users, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "a@x.com", users[0].Email)
}

func TestGetEntryScopedByOwner(t *testing.T) {
	store := openStore(t, newPaths(t))
	defer store.Close()
	ctx := context.Background()

	entry := &internal.SleepEntry{ID: "e1", UserID: "u1", CreatedAt: time.Now()}
	require.NoError(t, store.CreateEntry(ctx, entry))

	_, err := store.GetEntry(ctx, "e1", "u2")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := store.GetEntry(ctx, "e1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "e1", got.ID)
}

func TestDeleteEntryRemovesFromIndex(t *testing.T) {
	store := openStore(t, newPaths(t))
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.CreateEntry(ctx, &internal.SleepEntry{ID: "e1", UserID: "u1", CreatedAt: time.Now()}))
	require.NoError(t, store.CreateEntry(ctx, &internal.SleepEntry{ID: "e2", UserID: "u1", CreatedAt: time.Now().Add(time.Second)}))

	require.NoError(t, store.DeleteEntry(ctx, "e1", "u1"))

	entries, err := store.ListEntries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e2", entries[0].ID)

	assert.ErrorIs(t, store.DeleteEntry(ctx, "e1", "u1"), ErrNotFound)
}

func TestSaveRequestLog(t *testing.T) {
	store := openStore(t, newPaths(t))
	defer store.Close()

	rec := &internal.RequestLog{
		ID:         "l1",
		Method:     "GET",
		URL:        "/v1/sleep",
		IP:         "10.0.0.1",
		StatusCode: 200,
		Duration:   12,
		CreatedAt:  time.Now().UTC(),
	}
	assert.NoError(t, store.SaveRequestLog(context.Background(), rec))
}

func TestFileStoreStatus(t *testing.T) {
	store := openStore(t, newPaths(t))
	defer store.Close()

	status := store.Status(context.Background())
	assert.Equal(t, "connected", status.State)
}

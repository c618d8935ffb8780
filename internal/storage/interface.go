package storage

import (
	"context"
	"errors"

	"github.com/hrcadm/sleeptracker/internal"
)

var (
	// ErrNotFound signals a missing record, including records owned by a
	// different user than the caller.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate signals a unique-constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) error
	UserByEmail(ctx context.Context, email string) (*internal.User, error)
	UserByID(ctx context.Context, id string) (*internal.User, error)
	UpdateUser(ctx context.Context, user *internal.User) error
}

type SleepRepository interface {
	CreateEntry(ctx context.Context, entry *internal.SleepEntry) error
	ListEntries(ctx context.Context, userID string) ([]internal.SleepEntry, error)
	GetEntry(ctx context.Context, id, userID string) (*internal.SleepEntry, error)
	UpdateEntry(ctx context.Context, entry *internal.SleepEntry) error
	DeleteEntry(ctx context.Context, id, userID string) error
}

type LogRepository interface {
	SaveRequestLog(ctx context.Context, rec *internal.RequestLog) error
}

// Store is the full storage surface the application wires at startup.
type Store interface {
	UserRepository
	SleepRepository
	LogRepository
	Status(ctx context.Context) internal.StorageStatus
	Close()
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/storage"
)

type CreateSleepRequest struct {
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

type UpdateSleepRequest struct {
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

// CreateEntry persists a sleep interval for the user. Duration is always
// derived from the timestamps, never supplied by the caller.
func CreateEntry(ctx context.Context, repo storage.SleepRepository, user *internal.User, req *CreateSleepRequest) (*internal.SleepEntry, *internal.AppError) {
	if req.StartTime == nil || req.EndTime == nil {
		return nil, internal.BadRequest("Start time and end time are required")
	}
	if !req.EndTime.After(*req.StartTime) {
		return nil, internal.BadRequest("End time must be after start time")
	}

	now := time.Now().UTC()
	entry := &internal.SleepEntry{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		StartTime: *req.StartTime,
		EndTime:   *req.EndTime,
		Duration:  internal.ComputeDuration(*req.StartTime, *req.EndTime),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.CreateEntry(ctx, entry); err != nil {
		return nil, internal.Internal("Failed to create sleep entry")
	}
	return entry, nil
}

// ListEntries returns the caller's entries, most recent first.
func ListEntries(ctx context.Context, repo storage.SleepRepository, user *internal.User) ([]internal.SleepEntry, *internal.AppError) {
	entries, err := repo.ListEntries(ctx, user.ID)
	if err != nil {
		return nil, internal.Internal("Failed to get sleep entries")
	}
	if entries == nil {
		entries = []internal.SleepEntry{}
	}
	return entries, nil
}

// GetEntry is owner-scoped: another user's entry is indistinguishable from a
// missing one.
func GetEntry(ctx context.Context, repo storage.SleepRepository, user *internal.User, id string) (*internal.SleepEntry, *internal.AppError) {
	entry, err := repo.GetEntry(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.NotFound("Sleep entry not found")
		}
		return nil, internal.Internal("Failed to get sleep entry")
	}
	return entry, nil
}

// UpdateEntry applies a partial update, re-validates the merged interval and
// recomputes the duration.
func UpdateEntry(ctx context.Context, repo storage.SleepRepository, user *internal.User, id string, req *UpdateSleepRequest) (*internal.SleepEntry, *internal.AppError) {
	entry, appErr := GetEntry(ctx, repo, user, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.StartTime != nil {
		entry.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		entry.EndTime = *req.EndTime
	}
	if !entry.EndTime.After(entry.StartTime) {
		return nil, internal.BadRequest("End time must be after start time")
	}
	entry.Duration = internal.ComputeDuration(entry.StartTime, entry.EndTime)
	entry.UpdatedAt = time.Now().UTC()

	if err := repo.UpdateEntry(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.NotFound("Sleep entry not found")
		}
		return nil, internal.Internal("Failed to update sleep entry")
	}
	return entry, nil
}

// DeleteEntry removes an owner-scoped entry.
func DeleteEntry(ctx context.Context, repo storage.SleepRepository, user *internal.User, id string) *internal.AppError {
	if err := repo.DeleteEntry(ctx, id, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return internal.NotFound("Sleep entry not found")
		}
		return internal.Internal("Failed to delete sleep entry")
	}
	return nil
}

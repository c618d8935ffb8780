package internal

import (
	"math"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Projection returns the minimal user view embedded in token responses.
func (u *User) Projection() map[string]any {
	return map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
}

type SleepEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Duration  int       `json:"duration"` // minutes, always derived from start/end
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ComputeDuration derives an entry duration in whole minutes.
func ComputeDuration(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// RequestLog is a best-effort record of a completed HTTP request.
type RequestLog struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"requestId,omitempty"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	IP         string    `json:"ip"`
	StatusCode int       `json:"statusCode"`
	Duration   int64     `json:"duration"` // milliseconds
	UserAgent  string    `json:"userAgent,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// StorageStatus is surfaced by the healthcheck as data, never as an error.
type StorageStatus struct {
	State    string `json:"state"` // connected, pending, failed
	Database string `json:"database,omitempty"`
	Host     string `json:"host,omitempty"`
}

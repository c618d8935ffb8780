package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrcadm/sleeptracker/internal"
)

const uniqueViolation = "23505"

type PostgresStore struct {
	pool   *pgxpool.Pool
	dbName string
	dbHost string
	logger internal.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Errorf("storage: invalid postgres DSN: %v", err)
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.Errorf("storage: failed to create pool: %v", err)
		return nil, err
	}
	s := &PostgresStore{
		pool:   pool,
		dbName: cfg.ConnConfig.Database,
		dbHost: cfg.ConnConfig.Host,
		logger: logger,
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sleep_entries (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			duration INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sleep_entries_user_created
			ON sleep_entries (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS request_logs (
			id UUID PRIMARY KEY,
			request_id TEXT,
			method TEXT NOT NULL,
			url TEXT NOT NULL,
			ip TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			duration BIGINT NOT NULL,
			user_agent TEXT,
			user_id UUID,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			s.logger.Errorf("storage: schema setup failed: %v", err)
			return err
		}
	}
	return nil
}

// --- UserRepository ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *internal.User) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO users (id, name, email, password_hash, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		s.logger.Errorf("storage: failed to insert user: %v", err)
		return err
	}
	return nil
}

func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (*internal.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, name, email, password_hash, is_active, created_at, updated_at FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PostgresStore) UserByID(ctx context.Context, id string) (*internal.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, name, email, password_hash, is_active, created_at, updated_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *internal.User) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET name = $1, email = $2, password_hash = $3, is_active = $4, updated_at = $5 WHERE id = $6`,
		user.Name, user.Email, user.PasswordHash, user.IsActive, user.UpdatedAt, user.ID)
	if err != nil {
		s.logger.Errorf("storage: failed to update user: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*internal.User, error) {
	var u internal.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- SleepRepository ---

func (s *PostgresStore) CreateEntry(ctx context.Context, entry *internal.SleepEntry) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO sleep_entries (id, user_id, start_time, end_time, duration, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.UserID, entry.StartTime, entry.EndTime, entry.Duration, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		s.logger.Errorf("storage: failed to insert sleep entry: %v", err)
		return err
	}
	return nil
}

func (s *PostgresStore) ListEntries(ctx context.Context, userID string) ([]internal.SleepEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, user_id, start_time, end_time, duration, created_at, updated_at FROM sleep_entries WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		s.logger.Errorf("storage: failed to query sleep entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]internal.SleepEntry, 0)
	for rows.Next() {
		var e internal.SleepEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.StartTime, &e.EndTime, &e.Duration, &e.CreatedAt, &e.UpdatedAt); err != nil {
			s.logger.Errorf("storage: failed to scan sleep entry: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) GetEntry(ctx context.Context, id, userID string) (*internal.SleepEntry, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, user_id, start_time, end_time, duration, created_at, updated_at FROM sleep_entries WHERE id = $1 AND user_id = $2`, id, userID)
	var e internal.SleepEntry
	err := row.Scan(&e.ID, &e.UserID, &e.StartTime, &e.EndTime, &e.Duration, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) UpdateEntry(ctx context.Context, entry *internal.SleepEntry) error {
	tag, err := s.pool.Exec(ctx, `UPDATE sleep_entries SET start_time = $1, end_time = $2, duration = $3, updated_at = $4 WHERE id = $5 AND user_id = $6`,
		entry.StartTime, entry.EndTime, entry.Duration, entry.UpdatedAt, entry.ID, entry.UserID)
	if err != nil {
		s.logger.Errorf("storage: failed to update sleep entry: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sleep_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		s.logger.Errorf("storage: failed to delete sleep entry: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- LogRepository ---

func (s *PostgresStore) SaveRequestLog(ctx context.Context, rec *internal.RequestLog) error {
	var userID any
	if rec.UserID != "" {
		userID = rec.UserID
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO request_logs (id, request_id, method, url, ip, status_code, duration, user_agent, user_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.RequestID, rec.Method, rec.URL, rec.IP, rec.StatusCode, rec.Duration, rec.UserAgent, userID, rec.CreatedAt)
	return err
}

// --- Status / lifecycle ---

func (s *PostgresStore) Status(ctx context.Context) internal.StorageStatus {
	if s.pool == nil {
		return internal.StorageStatus{State: "pending"}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.pool.Ping(pingCtx); err != nil {
		return internal.StorageStatus{State: "failed"}
	}
	return internal.StorageStatus{State: "connected", Database: s.dbName, Host: s.dbHost}
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

var _ Store = (*PostgresStore)(nil)

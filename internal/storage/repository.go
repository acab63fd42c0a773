// Package storage persists ledger snapshots and sheet export bookkeeping in
// SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"moneyx/internal/log"
	"moneyx/internal/store"
)

var (
	_ store.Persister = (*SQLiteRepository)(nil)
	_ store.Loader    = (*SQLiteRepository)(nil)
)

// SQLiteRepository stores one JSON snapshot of the ledger state per user.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, logger: logger.WithComponent(log.ComponentStorage)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection, used by readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Save implements store.Persister. Each save bumps the snapshot version.
func (r *SQLiteRepository) Save(ctx context.Context, userID string, st store.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, payload, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			payload = excluded.payload,
			version = snapshots.version + 1,
			updated_at = excluded.updated_at`,
		userID, string(payload), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save snapshot for %s: %w", userID, err)
	}

	r.logger.DebugContext(ctx, "Snapshot saved",
		log.FieldUserID, userID,
		"bytes", len(payload),
		"transactions", len(st.Transactions))
	return nil
}

// Load implements store.Loader. The boolean is false when the user has no
// snapshot yet.
func (r *SQLiteRepository) Load(ctx context.Context, userID string) (store.State, bool, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE user_id = ?`, userID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return store.State{}, false, nil
	}
	if err != nil {
		return store.State{}, false, fmt.Errorf("load snapshot for %s: %w", userID, err)
	}

	var st store.State
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return store.State{}, false, fmt.Errorf("decode snapshot for %s: %w", userID, err)
	}
	st.UserID = userID
	return st, true, nil
}

// SnapshotVersion returns how many times the user's snapshot was written,
// or 0 when none exists.
func (r *SQLiteRepository) SnapshotVersion(ctx context.Context, userID string) (int64, error) {
	var v int64
	err := r.db.QueryRowContext(ctx,
		`SELECT version FROM snapshots WHERE user_id = ?`, userID).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("snapshot version for %s: %w", userID, err)
	}
	return v, nil
}

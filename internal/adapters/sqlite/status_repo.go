package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/smsfix/internal/ports/secondary"
)

// StatusRepository implements secondary.StatusRepository with SQLite. The
// active flag is the only watcher state that survives restarts.
type StatusRepository struct {
	db *sql.DB
}

// NewStatusRepository creates a new SQLite status repository.
func NewStatusRepository(db *sql.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// SetWatcherActive persists whether the watcher is running.
func (r *StatusRepository) SetWatcherActive(ctx context.Context, active bool) error {
	value := "false"
	if active {
		value = "true"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES ('watcher_active', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		value,
	)
	if err != nil {
		return fmt.Errorf("failed to persist watcher state: %w", err)
	}

	return nil
}

// WatcherActive reads the persisted flag; a missing row reads as false.
func (r *StatusRepository) WatcherActive(ctx context.Context) (bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = 'watcher_active'",
	).Scan(&value)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read watcher state: %w", err)
	}

	return value == "true", nil
}

// Ensure StatusRepository implements the interface.
var _ secondary.StatusRepository = (*StatusRepository)(nil)

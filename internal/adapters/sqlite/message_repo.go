// Package sqlite contains SQLite implementations of the secondary ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/smsfix/internal/ports/secondary"
)

// WriteObserver is notified of this process's own message writes so the
// change watcher can label the resulting notification as self-caused.
type WriteObserver interface {
	ObserveSelfWrite()
}

// MessageRepository implements secondary.MessageStore with SQLite.
type MessageRepository struct {
	db       *sql.DB
	observer WriteObserver
}

// NewMessageRepository creates a new SQLite message repository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// SetWriteObserver registers an observer for this repository's own writes.
func (r *MessageRepository) SetWriteObserver(o WriteObserver) {
	r.observer = o
}

// Snapshot returns the inbox messages ordered by id descending.
func (r *MessageRepository) Snapshot(ctx context.Context) ([]secondary.MessageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, date FROM messages WHERE folder = ? ORDER BY id DESC",
		secondary.FolderInbox,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot messages: %w", err)
	}
	defer rows.Close()

	var records []secondary.MessageRecord
	for rows.Next() {
		var rec secondary.MessageRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		rec.Folder = secondary.FolderInbox
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return records, nil
}

// UpdateTimestamp writes a new timestamp for the message with the given id.
func (r *MessageRepository) UpdateTimestamp(ctx context.Context, id, timestamp int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE messages SET date = ? WHERE id = ?", timestamp, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update message timestamp: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("message %d not found", id)
	}

	if r.observer != nil {
		r.observer.ObserveSelfWrite()
	}

	return nil
}

// Insert persists a new message and returns its store-assigned id.
func (r *MessageRepository) Insert(ctx context.Context, rec *secondary.MessageRecord) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (address, body, folder, date) VALUES (?, ?, ?, ?)",
		rec.Address, rec.Body, rec.Folder, rec.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted message id: %w", err)
	}

	return id, nil
}

// Delete removes a message. AUTOINCREMENT guarantees the id is never reused.
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("message %d not found", id)
	}

	return nil
}

// List returns up to limit messages of all folders, newest first.
func (r *MessageRepository) List(ctx context.Context, limit int) ([]secondary.MessageRecord, error) {
	query := "SELECT id, address, body, folder, date FROM messages ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var records []secondary.MessageRecord
	for rows.Next() {
		var (
			rec     secondary.MessageRecord
			address sql.NullString
			body    sql.NullString
		)
		if err := rows.Scan(&rec.ID, &address, &body, &rec.Folder, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		rec.Address = address.String
		rec.Body = body.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return records, nil
}

// Ensure MessageRepository implements the interface.
var _ secondary.MessageStore = (*MessageRepository)(nil)

// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// the external message store.
package secondary

import "context"

// Folder constants mirror the message classes of the telephony provider's
// store. Only inbox messages are ever scanned or adjusted.
const (
	FolderInbox = 1
	FolderSent  = 2
)

// MessageRecord represents a message as stored in persistence. Timestamps
// are milliseconds since epoch, matching the provider's date column.
type MessageRecord struct {
	ID        int64
	Timestamp int64
	Folder    int
	Address   string
	Body      string
}

// MessageStore defines the secondary port for the message store.
type MessageStore interface {
	// Snapshot returns the inbox messages ordered by id descending (newest
	// first). The returned slice is an immutable snapshot: it is not
	// refreshed by later store changes. Only ID and Timestamp are
	// guaranteed to be populated.
	Snapshot(ctx context.Context) ([]MessageRecord, error)

	// UpdateTimestamp writes a new timestamp for the message with the given
	// id.
	UpdateTimestamp(ctx context.Context, id, timestamp int64) error

	// Insert persists a new message and returns its store-assigned id.
	Insert(ctx context.Context, rec *MessageRecord) (int64, error)

	// Delete removes a message. Its id is never reused.
	Delete(ctx context.Context, id int64) error

	// List returns up to limit messages of all folders, newest first, with
	// all fields populated. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]MessageRecord, error)
}

// ChangeNotifier defines the secondary port for store change notifications.
// Delivery is at-least-once: duplicates and coalesced notifications are
// expected, and subscribers must tolerate both.
type ChangeNotifier interface {
	// Subscribe registers fn for change notifications and returns a cancel
	// function. selfCaused is a best-effort hint that the change was one of
	// this process's own writes; it is not reliable and must not be the
	// sole idempotence guard. Callbacks for one subscriber are delivered
	// serially.
	Subscribe(fn func(selfCaused bool)) (cancel func())
}

// StatusRepository defines the secondary port for the persisted watcher
// state. Only the active flag survives restarts; the processing frontier is
// always recomputed from the store.
type StatusRepository interface {
	// SetWatcherActive persists whether the watcher is running.
	SetWatcherActive(ctx context.Context, active bool) error

	// WatcherActive reads the persisted flag. A missing value reads as
	// false.
	WatcherActive(ctx context.Context) (bool, error)
}

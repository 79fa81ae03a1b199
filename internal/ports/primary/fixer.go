// Package primary defines the primary ports (driving interfaces) for the
// application. CLI adapters call these; the app package implements them.
package primary

import "context"

// WatcherStatus is the externally readable state of the fixer.
type WatcherStatus struct {
	// Active is the persisted flag: a watch process set it true and has not
	// yet shut down cleanly.
	Active bool
	// LastProcessedID is this instance's in-memory frontier, -1 if no
	// records have been observed. It is not persisted; a process that has
	// not run a sweep reports -1.
	LastProcessedID int64
	// NewestID is the id of the newest inbox message, -1 if the store is
	// empty.
	NewestID int64
	// TotalMessages and MarkedMessages count the inbox snapshot and how
	// many of its records already carry the sentinel.
	TotalMessages  int
	MarkedMessages int
}

// FixService is the primary port for the timestamp fixer.
type FixService interface {
	// Start initializes the processing frontier from the store, subscribes
	// to change notifications, and persists the active flag.
	Start(ctx context.Context) error

	// Stop persists the inactive flag and unsubscribes.
	Stop(ctx context.Context) error

	// FixNow runs a single sweep treating every unmarked inbox message as
	// new, and returns the number of messages adjusted. It does not require
	// Start.
	FixNow(ctx context.Context) (int, error)

	// Status reports the current watcher state.
	Status(ctx context.Context) (*WatcherStatus, error)
}

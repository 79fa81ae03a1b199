package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/smsfix/internal/ports/secondary"
)

// Watcher implements secondary.ChangeNotifier by polling SQLite's
// data_version pragma on a dedicated connection. The pragma's value changes
// whenever a different connection commits to the database file, so it
// observes writes from other connections in this process (the repositories
// use the pool, not this connection) as well as from external processes.
//
// Coalescing makes the selfCaused label best-effort only: when an external
// commit and one of our own land in the same poll interval, the single
// notification is labelled self-caused and the external change is only
// picked up because the engine's sentinel check makes reprocessing safe.
type Watcher struct {
	conn     *sql.Conn
	interval time.Duration
	log      logrus.FieldLogger

	mu          sync.Mutex
	subscribers map[int]func(selfCaused bool)
	nextSubID   int
	lastVersion int64
	started     bool

	selfWrites atomic.Int64

	stop chan struct{}
	done chan struct{}
}

// NewWatcher creates a watcher polling db at the given interval. The current
// data version is captured immediately so changes preceding construction are
// never reported.
func NewWatcher(ctx context.Context, db *sql.DB, interval time.Duration, log logrus.FieldLogger) (*Watcher, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve watcher connection: %w", err)
	}

	w := &Watcher{
		conn:        conn,
		interval:    interval,
		log:         log,
		subscribers: make(map[int]func(bool)),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}

	w.lastVersion, err = w.dataVersion(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return w, nil
}

// ObserveSelfWrite records one of this process's own store writes; the next
// detected change consumes the pending count and is labelled self-caused.
func (w *Watcher) ObserveSelfWrite() {
	w.selfWrites.Add(1)
}

// Subscribe registers fn and returns its cancel function. Callbacks are
// delivered serially from the poll loop.
func (w *Watcher) Subscribe(fn func(selfCaused bool)) (cancel func()) {
	w.mu.Lock()
	id := w.nextSubID
	w.nextSubID++
	w.subscribers[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.subscribers, id)
		w.mu.Unlock()
	}
}

// Start launches the poll loop. Calling it more than once is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.loop()
}

// Stop terminates the poll loop, if running, and releases the watcher
// connection.
func (w *Watcher) Stop() {
	w.mu.Lock()
	started := w.started
	w.started = false
	w.mu.Unlock()

	if started {
		close(w.stop)
		<-w.done
	}
	w.conn.Close()
}

func (w *Watcher) loop() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.Poll(context.Background())
		}
	}
}

// Poll checks the data version once and notifies subscribers if it moved.
// Exported so tests and one-shot callers can drive the watcher without the
// loop.
func (w *Watcher) Poll(ctx context.Context) {
	version, err := w.dataVersion(ctx)
	if err != nil {
		w.log.WithError(err).Warn("failed to poll data version")
		return
	}

	w.mu.Lock()
	changed := version != w.lastVersion
	w.lastVersion = version
	var fns []func(bool)
	if changed {
		for _, fn := range w.subscribers {
			fns = append(fns, fn)
		}
	}
	w.mu.Unlock()

	if !changed {
		return
	}

	selfCaused := w.selfWrites.Swap(0) > 0

	// Deliver outside the lock so a callback can cancel its subscription.
	for _, fn := range fns {
		fn(selfCaused)
	}
}

func (w *Watcher) dataVersion(ctx context.Context) (int64, error) {
	var version int64
	if err := w.conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read data version: %w", err)
	}
	return version, nil
}

// Ensure Watcher implements the notifier port and the write observer.
var (
	_ secondary.ChangeNotifier = (*Watcher)(nil)
	_ WriteObserver            = (*Watcher)(nil)
)

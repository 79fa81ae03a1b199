// Package app contains the application services that orchestrate the ports.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/smsfix/internal/core/offset"
	"github.com/example/smsfix/internal/core/stamp"
	"github.com/example/smsfix/internal/metrics"
	"github.com/example/smsfix/internal/ports/primary"
	"github.com/example/smsfix/internal/ports/secondary"
)

// noFrontier is the frontier value meaning "no records observed".
const noFrontier = -1

// FixServiceImpl implements primary.FixService.
//
// How it works: on every store change notification the service takes a fresh
// newest-first snapshot and walks it. Every record with an id above the
// previously known frontier gets its timestamp adjusted and stamped with the
// sentinel. A confirmation sweep then handles the case where the frontier
// record itself was deleted: it keeps adjusting older records until it meets
// one that already carries the sentinel. The sentinel in the timestamp, not
// the id, is the durable marker of "already processed", so duplicate
// notifications and revisits of the same record are harmless.
type FixServiceImpl struct {
	store    secondary.MessageStore
	notifier secondary.ChangeNotifier
	status   secondary.StatusRepository

	policy  offset.Policy
	magic   int64
	now     func() time.Time
	log     logrus.FieldLogger
	metrics metrics.Recorder

	// mu serializes sweeps and guards the frontier. Notifications are
	// already delivered serially, but Start/Stop/FixNow share the state.
	mu              sync.Mutex
	lastProcessedID int64
	cancel          func()
}

// FixServiceConfig carries the policy and optional collaborators for
// NewFixService.
type FixServiceConfig struct {
	Policy  offset.Policy
	Magic   int64
	Logger  logrus.FieldLogger
	Metrics metrics.Recorder
	// Now is the wall clock; overridable in tests.
	Now func() time.Time
}

// NewFixService creates a FixService with injected dependencies.
func NewFixService(store secondary.MessageStore, notifier secondary.ChangeNotifier, status secondary.StatusRepository, cfg FixServiceConfig) *FixServiceImpl {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if !stamp.Valid(cfg.Magic) {
		cfg.Magic = stamp.DefaultMagic
	}

	return &FixServiceImpl{
		store:           store,
		notifier:        notifier,
		status:          status,
		policy:          cfg.Policy,
		magic:           cfg.Magic,
		now:             cfg.Now,
		log:             cfg.Logger,
		metrics:         cfg.Metrics,
		lastProcessedID: noFrontier,
	}
}

// Start initializes the frontier from the store's newest message, subscribes
// to change notifications and persists the active flag. Messages already in
// the store are not retroactively adjusted; use FixNow for that.
func (s *FixServiceImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return fmt.Errorf("watcher already started")
	}

	if err := s.initFrontier(ctx); err != nil {
		return err
	}

	if err := s.status.SetWatcherActive(ctx, true); err != nil {
		return err
	}

	s.cancel = s.notifier.Subscribe(s.onChange)
	s.metrics.SetWatcherActive(true)
	s.log.WithField("last_processed_id", s.lastProcessedID).Info("messages now being monitored")

	return nil
}

// Stop unsubscribes and persists the inactive flag.
func (s *FixServiceImpl) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if err := s.status.SetWatcherActive(ctx, false); err != nil {
		return err
	}

	s.metrics.SetWatcherActive(false)
	s.log.Info("messages are no longer being monitored")

	return nil
}

// FixNow runs one sweep treating every unmarked inbox message as new.
func (s *FixServiceImpl) FixNow(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A one-shot sweep considers the whole store, independent of any
	// frontier a running watcher would have.
	s.lastProcessedID = noFrontier
	return s.fixup(ctx)
}

// Status reports the persisted flag, the in-memory frontier, and snapshot
// counts.
func (s *FixServiceImpl) Status(ctx context.Context) (*primary.WatcherStatus, error) {
	active, err := s.status.WatcherActive(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	status := &primary.WatcherStatus{
		Active:        active,
		NewestID:      noFrontier,
		TotalMessages: len(snapshot),
	}
	if len(snapshot) > 0 {
		status.NewestID = snapshot[0].ID
	}
	for _, rec := range snapshot {
		if stamp.IsMarked(rec.Timestamp, s.magic) {
			status.MarkedMessages++
		}
	}

	s.mu.Lock()
	status.LastProcessedID = s.lastProcessedID
	s.mu.Unlock()

	return status, nil
}

// LastProcessedID exposes the frontier for inspection.
func (s *FixServiceImpl) LastProcessedID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastProcessedID
}

// initFrontier sets the frontier to the newest inbox id, or -1 on an empty
// store. An empty store is a normal state, not an error.
func (s *FixServiceImpl) initFrontier(ctx context.Context) error {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}

	if len(snapshot) == 0 {
		s.lastProcessedID = noFrontier
	} else {
		s.lastProcessedID = snapshot[0].ID
	}
	s.metrics.SetLastProcessedID(s.lastProcessedID)

	return nil
}

// onChange handles a store change notification.
func (s *FixServiceImpl) onChange(selfCaused bool) {
	if selfCaused {
		// Fast path only. The flag is unreliable (coalescing can hide an
		// external write behind our own); missing a suppression here is
		// safe because transform no-ops on sentinel-bearing records.
		s.log.Debug("change notification suppressed: self-caused")
		return
	}

	s.log.Debug("message store altered, checking")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.fixup(context.Background()); err != nil {
		// Next notification reconsiders everything still unmarked.
		s.log.WithError(err).Error("fixup pass failed")
	}
}

// fixup is the core pass. Caller must hold s.mu. Returns the number of
// messages adjusted.
func (s *FixServiceImpl) fixup(ctx context.Context) (int, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	s.metrics.IncSweeps()

	if len(snapshot) == 0 {
		s.lastProcessedID = noFrontier
		s.metrics.SetLastProcessedID(noFrontier)
		return 0, nil
	}

	oldFrontier := s.lastProcessedID

	// The frontier advances to the newest id seen this pass, before any
	// transform. Records inserted during the sweep are caught by the next
	// notification; their timestamps stay unmarked until then.
	s.lastProcessedID = snapshot[0].ID
	s.metrics.SetLastProcessedID(s.lastProcessedID)

	fixed := 0

	// Forward sweep: everything strictly newer than the previous frontier.
	// Bounded by the snapshot, so a burst of inserts cannot make a single
	// pass loop forever.
	i := 0
	for snapshot[i].ID > oldFrontier {
		if s.transform(ctx, &snapshot[i]) {
			fixed++
		}
		if i == len(snapshot)-1 {
			break
		}
		i++
	}

	// Confirmation sweep: the record at the old frontier may have been
	// deleted, or may never have been adjusted. Identifiers can be skipped,
	// but a processed record always carries the sentinel, so keep going
	// until one is found (or the snapshot ends).
	if snapshot[i].ID != oldFrontier || !stamp.IsMarked(snapshot[i].Timestamp, s.magic) {
		for !stamp.IsMarked(snapshot[i].Timestamp, s.magic) {
			if s.transform(ctx, &snapshot[i]) {
				fixed++
				s.metrics.IncConfirmationFixes()
			}
			if i == len(snapshot)-1 {
				break
			}
			i++
		}
	}

	return fixed, nil
}

// transform adjusts one record's timestamp and stamps it with the sentinel.
// Returns whether a write happened. Records that already carry the sentinel
// are left alone: that check, not the notification source, is the
// idempotence guard.
func (s *FixServiceImpl) transform(ctx context.Context, rec *secondary.MessageRecord) bool {
	if stamp.IsMarked(rec.Timestamp, s.magic) {
		return false
	}

	target := offset.Target(s.policy, rec.Timestamp, s.now())
	final := stamp.Apply(target, s.magic)

	s.log.WithFields(logrus.Fields{
		"id":  rec.ID,
		"old": rec.Timestamp,
		"new": final,
	}).Info("adjusting timestamp for message")

	if err := s.store.UpdateTimestamp(ctx, rec.ID, final); err != nil {
		// No retry. The record stays unmarked, so the next pass
		// reconsiders it; all we owe the operator is a log line.
		s.metrics.IncWriteFailures()
		s.log.WithError(err).WithField("id", rec.ID).Error("failed to update message timestamp")
		return false
	}

	// Keep the snapshot honest so revisits within this pass see the mark.
	rec.Timestamp = final
	s.metrics.IncFixed()

	return true
}

// Ensure FixServiceImpl implements the primary port.
var _ primary.FixService = (*FixServiceImpl)(nil)

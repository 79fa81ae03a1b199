package sqlite_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smsfix/internal/adapters/sqlite"
	"github.com/example/smsfix/internal/ports/secondary"
)

func newTestWatcher(t *testing.T) (*sqlite.Watcher, *sqlite.MessageRepository) {
	t.Helper()

	conn := setupFileDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	w, err := sqlite.NewWatcher(context.Background(), conn, time.Hour, log)
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	return w, sqlite.NewMessageRepository(conn)
}

func TestPollWithoutChangesStaysQuiet(t *testing.T) {
	w, _ := newTestWatcher(t)

	var calls int
	cancel := w.Subscribe(func(bool) { calls++ })
	defer cancel()

	w.Poll(context.Background())
	w.Poll(context.Background())
	assert.Equal(t, 0, calls)
}

func TestPollDetectsExternalWrite(t *testing.T) {
	w, repo := newTestWatcher(t)
	ctx := context.Background()

	var (
		calls      int
		selfCaused bool
	)
	cancel := w.Subscribe(func(sc bool) { calls++; selfCaused = sc })
	defer cancel()

	_, err := repo.Insert(ctx, &secondary.MessageRecord{
		Folder: secondary.FolderInbox, Timestamp: 1000,
	})
	require.NoError(t, err)

	w.Poll(ctx)
	assert.Equal(t, 1, calls)
	assert.False(t, selfCaused)

	// Change detection consumes the version delta; no duplicate fires.
	w.Poll(ctx)
	assert.Equal(t, 1, calls)
}

func TestPollLabelsOwnWritesSelfCaused(t *testing.T) {
	w, repo := newTestWatcher(t)
	repo.SetWriteObserver(w)
	ctx := context.Background()

	id, err := repo.Insert(ctx, &secondary.MessageRecord{
		Folder: secondary.FolderInbox, Timestamp: 1000,
	})
	require.NoError(t, err)
	w.Poll(ctx) // consume the insert

	var (
		calls      int
		selfCaused bool
	)
	cancel := w.Subscribe(func(sc bool) { calls++; selfCaused = sc })
	defer cancel()

	require.NoError(t, repo.UpdateTimestamp(ctx, id, 1337))
	w.Poll(ctx)

	assert.Equal(t, 1, calls)
	assert.True(t, selfCaused)
}

func TestCancelStopsDelivery(t *testing.T) {
	w, repo := newTestWatcher(t)
	ctx := context.Background()

	var calls int
	cancel := w.Subscribe(func(bool) { calls++ })
	cancel()

	_, err := repo.Insert(ctx, &secondary.MessageRecord{
		Folder: secondary.FolderInbox, Timestamp: 1000,
	})
	require.NoError(t, err)

	w.Poll(ctx)
	assert.Equal(t, 0, calls)
}

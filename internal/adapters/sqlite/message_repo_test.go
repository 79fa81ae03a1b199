package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smsfix/internal/adapters/sqlite"
	"github.com/example/smsfix/internal/ports/secondary"
)

func TestSnapshotOrdersNewestFirst(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewMessageRepository(conn)
	ctx := context.Background()

	first := seedInbox(t, conn, 1000)
	second := seedInbox(t, conn, 2000)
	third := seedInbox(t, conn, 3000)

	records, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, third, records[0].ID)
	assert.Equal(t, second, records[1].ID)
	assert.Equal(t, first, records[2].ID)
	assert.Equal(t, int64(3000), records[0].Timestamp)
}

func TestSnapshotExcludesSentFolder(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewMessageRepository(conn)
	ctx := context.Background()

	inbox := seedInbox(t, conn, 1000)
	seedMessage(t, conn, secondary.FolderSent, 2000)

	records, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, inbox, records[0].ID)
}

func TestSnapshotEmptyStore(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewMessageRepository(conn)

	records, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpdateTimestamp(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewMessageRepository(conn)
	ctx := context.Background()

	id := seedInbox(t, conn, 1000)
	require.NoError(t, repo.UpdateTimestamp(ctx, id, 1337))

	records, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1337), records[0].Timestamp)
}

func TestUpdateTimestampMissingRecord(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewMessageRepository(conn)

	err := repo.UpdateTimestamp(context.Background(), 42, 1337)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewMessageRepository(conn)
	ctx := context.Background()

	first, err := repo.Insert(ctx, &secondary.MessageRecord{
		Address: "+15550100", Body: "hello", Folder: secondary.FolderInbox, Timestamp: 1000,
	})
	require.NoError(t, err)

	second, err := repo.Insert(ctx, &secondary.MessageRecord{
		Address: "+15550100", Body: "again", Folder: secondary.FolderInbox, Timestamp: 2000,
	})
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestDeletedIDIsNeverReused(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewMessageRepository(conn)
	ctx := context.Background()

	seedInbox(t, conn, 1000)
	doomed := seedInbox(t, conn, 2000)
	require.NoError(t, repo.Delete(ctx, doomed))

	next, err := repo.Insert(ctx, &secondary.MessageRecord{
		Folder: secondary.FolderInbox, Timestamp: 3000,
	})
	require.NoError(t, err)
	assert.Greater(t, next, doomed)
}

func TestDeleteMissingRecord(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewMessageRepository(conn)

	err := repo.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListIncludesAllFoldersWithLimit(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewMessageRepository(conn)
	ctx := context.Background()

	seedInbox(t, conn, 1000)
	sent := seedMessage(t, conn, secondary.FolderSent, 2000)
	newest := seedInbox(t, conn, 3000)

	records, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newest, records[0].ID)
	assert.Equal(t, sent, records[1].ID)
	assert.Equal(t, "+15550100", records[0].Address)
	assert.Equal(t, "test", records[0].Body)
}

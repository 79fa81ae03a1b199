// Package sqlite_test contains integration tests for the SQLite adapters.
//
// All test databases are created from db.GetSchemaSQL(), the authoritative
// schema, so test schemas cannot drift from production. Do not hardcode
// CREATE TABLE statements in test files.
package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/smsfix/internal/db"
	"github.com/example/smsfix/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// An in-memory database exists per connection; more than one would
	// give each test statement a different (empty) database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// setupFileDB creates a file-backed database for tests that need multiple
// connections (the change watcher reserves its own).
func setupFileDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(filepath.Join(t.TempDir(), "smsfix.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedMessage inserts a test message directly and returns its id.
func seedMessage(t *testing.T, conn *sql.DB, folder int, timestamp int64) int64 {
	t.Helper()

	result, err := conn.ExecContext(context.Background(),
		"INSERT INTO messages (address, body, folder, date) VALUES ('+15550100', 'test', ?, ?)",
		folder, timestamp,
	)
	if err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded message id: %v", err)
	}
	return id
}

func seedInbox(t *testing.T, conn *sql.DB, timestamp int64) int64 {
	t.Helper()
	return seedMessage(t, conn, secondary.FolderInbox, timestamp)
}

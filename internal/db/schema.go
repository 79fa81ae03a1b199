package db

// SchemaSQL is the complete schema for fresh smsfix installs.
//
// This is the single source of truth for the database schema. All tests use
// it via GetSchemaSQL() so test schemas cannot drift from production: if
// repository code references a column that does not exist here, tests fail
// immediately with "no such column".
const SchemaSQL = `
-- Messages (mirror of the telephony provider's message table).
-- id is AUTOINCREMENT so deleted ids are never reused; the fixer's
-- frontier logic depends on that.
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	address TEXT,
	body TEXT,
	folder INTEGER NOT NULL DEFAULT 1,
	date INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_folder_id ON messages(folder, id DESC);

-- Settings (persisted watcher state; only the active flag survives restarts)
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// GetSchemaSQL returns the authoritative schema SQL.
func GetSchemaSQL() string {
	return SchemaSQL
}

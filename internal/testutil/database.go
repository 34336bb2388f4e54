package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	// Register the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
)

// DatabaseSize is the size of the database returned by Database. With a 4096 byte
// page size the big-endian page size field at offset 16 reads as 16 when taken as
// a little-endian exponent, and 2^16 is this size.
const DatabaseSize = 1 << 16

// Database builds a small SQLite file the way TA images carry it and returns
// its bytes padded to DatabaseSize.
//
// Schema: table "props" (3 rows), table "logs" (0 rows), index "props_key".
func Database(tb testing.TB) []byte {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		tb.Fatalf("open fixture db: %v", err)
	}
	stmts := []string{
		"PRAGMA page_size = 4096",
		"CREATE TABLE props (key TEXT NOT NULL, value BLOB)",
		"CREATE INDEX props_key ON props (key)",
		"CREATE TABLE logs (id INTEGER PRIMARY KEY, line TEXT)",
		"INSERT INTO props (key, value) VALUES ('unit', x'01'), ('model', 'H8324'), ('rev', x'0200')",
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			tb.Fatalf("exec %q: %v", s, err)
		}
	}
	if err := db.Close(); err != nil {
		tb.Fatalf("close fixture db: %v", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // test fixture path
	if err != nil {
		tb.Fatalf("read fixture db: %v", err)
	}
	if len(data) > DatabaseSize {
		tb.Fatalf("fixture db is %d bytes, larger than %d", len(data), DatabaseSize)
	}
	out := make([]byte, DatabaseSize)
	copy(out, data)
	return out
}

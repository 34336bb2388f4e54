// Package sqlitedb inspects SQLite databases dumped from TA images.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	// Register the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
)

// Object is one entry of the database schema.
type Object struct {
	Type string
	Name string
	// Rows is the row count for tables, -1 for other object types.
	Rows int64
}

// Inspect opens the database at path read-only and lists its schema objects
// ordered by name.
func Inspect(ctx context.Context, path string) ([]Object, error) {
	uri, err := dsn(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", uri)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	objects, err := schema(ctx, db)
	if err != nil {
		return nil, err
	}
	for i := range objects {
		if objects[i].Type != "table" {
			continue
		}
		n, err := count(ctx, db, objects[i].Name)
		if err != nil {
			return nil, err
		}
		objects[i].Rows = n
	}
	return objects, nil
}

// dsn builds a read-only URI; immutable skips locking since the dump never changes.
// The path is made absolute and percent-escaped so reserved URI characters in
// directory names reach SQLite unchanged.
func dsn(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	u := url.URL{Scheme: "file", Path: abs}
	q := url.Values{}
	q.Set("mode", "ro")
	q.Set("immutable", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func schema(ctx context.Context, db *sql.DB) ([]Object, error) {
	rows, err := db.QueryContext(ctx, "SELECT type, name FROM sqlite_master ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	defer rows.Close()

	var objects []Object
	for rows.Next() {
		o := Object{Rows: -1}
		if err := rows.Scan(&o.Type, &o.Name); err != nil {
			return nil, fmt.Errorf("scan schema: %w", err)
		}
		objects = append(objects, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return objects, nil
}

func count(ctx context.Context, db *sql.DB, table string) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + quoteIdent(table) //nolint:gosec // identifier is quoted
	if err := db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

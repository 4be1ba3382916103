// Package store implements the state store: a relational index of
// installed packages and backups, backed by an embedded single-file
// SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"runtime"

	"github.com/doug-martin/goqu/v8"
	_ "github.com/doug-martin/goqu/v8/dialect/sqlite3"
	_ "modernc.org/sqlite" // register the sqlite driver

	"github.com/texman/texman"
)

const schema = `
CREATE TABLE IF NOT EXISTS installed_packages (
	profile  TEXT NOT NULL,
	name     TEXT NOT NULL,
	revision TEXT NOT NULL,
	PRIMARY KEY (profile, name)
);
CREATE TABLE IF NOT EXISTS backups (
	backup_name TEXT NOT NULL,
	profile     TEXT NOT NULL,
	name        TEXT NOT NULL,
	revision    TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (backup_name, name)
);
`

var dialect = goqu.Dialect("sqlite3")

// Store is a handle to the texman.sqlite database.
//
// Store must have Close called when no longer needed, or, as with the
// reference corpus's own SQLite wrapper, the process may panic via a
// finalizer that catches an unclosed handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and ensures
// its schema exists.
func Open(path string) (*Store, error) {
	u := url.URL{
		Scheme: "file",
		Opaque: path,
		RawQuery: url.Values{
			"_pragma": {"foreign_keys(1)", "journal_mode(wal)"},
		}.Encode(),
	}
	db, err := sql.Open("sqlite", u.String())
	if err != nil {
		return nil, texman.Database(err)
	}
	if err := db.Ping(); err != nil {
		return nil, texman.Database(err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, texman.Database(fmt.Errorf("applying schema: %w", err))
	}

	s := &Store{db: db}
	_, file, line, _ := runtime.Caller(1)
	runtime.SetFinalizer(s, func(s *Store) {
		panic(fmt.Sprintf("%s:%d: texman store not closed", file, line))
	})
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	runtime.SetFinalizer(s, nil)
	return s.db.Close()
}

// timedExec runs query (an already-built SQL string) with args, recording
// Prometheus timing/count metrics keyed by name.
func (s *Store) timedExec(ctx context.Context, name, query string, args ...any) (sql.Result, error) {
	q := newQuery(name)
	defer q.done()
	res, err := s.db.ExecContext(ctx, query, args...)
	q.observe(err)
	return res, err
}

func (s *Store) timedQuery(ctx context.Context, name, query string, args ...any) (*sql.Rows, error) {
	q := newQuery(name)
	rows, err := s.db.QueryContext(ctx, query, args...)
	q.observe(err)
	q.done()
	return rows, err
}

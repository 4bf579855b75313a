package qlite

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"zombiezen.com/go/sqlite"

	"github.com/qlite/qlite/internal/log"
)

// Database owns one connection to an SQLite database file. It compiles
// SQL into Statements, runs one-shot statements, and streams query
// results through a per-row callback.
//
// A Database and its derived Statements belong to one logical owner at a
// time; there is no internal locking. The Database must outlive every
// Statement it produced. Transactions are not managed here: group
// statements with explicit BEGIN/COMMIT through Exec.
type Database struct {
	conn *sqlite.Conn
	path string
	log  zerolog.Logger
}

// Option configures a Database at Open time.
type Option func(*Database)

// WithLogger routes the diagnostic channel to l instead of the process
// default. Diagnostics are advisory; callers still check boolean returns.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Database) { d.log = l }
}

// Open opens a connection to the database file at path, creating the
// file if it does not exist. This is the only operation in the package
// that signals failure through an error return: without a connection
// there is no Database to hand back.
func Open(path string, opts ...Option) (*Database, error) {
	d := &Database{path: path, log: log.L}
	for _, opt := range opts {
		opt(d)
	}
	conn, err := sqlite.OpenConn(path)
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}
	d.conn = conn
	return d, nil
}

// Close closes the connection. Closing an already-closed Database is a
// no-op.
func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// Path returns the file path the Database was opened against.
func (d *Database) Path() string { return d.path }

// Exec compiles and fully runs sql, which may hold several statements
// separated by semicolons. Result rows are stepped over and discarded.
// It reports success; on failure the engine diagnostic is logged.
func (d *Database) Exec(sql string) bool {
	if d.conn == nil {
		d.log.Error().Str("sql", sql).Msg("exec failed: database is closed")
		return false
	}
	query := sql
	for strings.TrimSpace(query) != "" {
		stmt, trailing, err := d.conn.PrepareTransient(query)
		if err != nil {
			d.log.Error().Err(err).Str("sql", query).Msg("exec failed")
			return false
		}
		for {
			row, err := stmt.Step()
			if err != nil {
				stmt.Finalize()
				d.log.Error().Err(err).Str("sql", query).Msg("exec failed")
				return false
			}
			if !row {
				break
			}
		}
		stmt.Finalize()
		query = query[len(query)-trailing:]
	}
	return true
}

// Prepare compiles sql into a Statement. Only the first statement in sql
// is compiled. Prepare never returns nil: on compile failure the
// diagnostic is logged and the returned Statement reports itself invalid,
// with every operation on it failing cleanly.
func (d *Database) Prepare(sql string) *Statement {
	s := &Statement{db: d, sql: sql}
	if d.conn == nil {
		d.log.Error().Str("sql", sql).Msg("prepare failed: database is closed")
		return s
	}
	if strings.TrimSpace(sql) == "" {
		d.log.Error().Str("sql", sql).Msg("prepare failed: empty statement")
		return s
	}
	stmt, _, err := d.conn.PrepareTransient(sql)
	if err != nil {
		d.log.Error().Err(err).Str("sql", sql).Msg("prepare failed")
		return s
	}
	s.stmt = stmt
	return s
}

// Query prepares sql and invokes callback with each result row. If the
// callback returns false, iteration stops immediately and Query reports
// false; that is the streaming path's cancellation mechanism, not an
// error. Query reports false as well when preparation fails, and true
// once the result set is exhausted.
func (d *Database) Query(sql string, callback func(Row) bool) bool {
	stmt := d.Prepare(sql)
	if !stmt.Valid() {
		return false
	}
	defer stmt.Close()
	for {
		row := Row{}
		if !stmt.Fetch(row) {
			return true
		}
		if !callback(row) {
			return false
		}
	}
}

// LastInsertID returns the connection's most recently auto-generated
// row identifier.
func (d *Database) LastInsertID() int64 {
	if d.conn == nil {
		return 0
	}
	return d.conn.LastInsertRowID()
}

package qlite

import (
	"fmt"

	"zombiezen.com/go/sqlite"
)

// Statement is a compiled query owned by the caller. It supports
// positional parameter binding, single-step execution, row-by-row
// fetching, and reuse via Reset. Close releases the compiled resource.
//
// A Statement whose compilation failed is inert but safe: every
// operation on it reports failure without side effects. The Statement
// keeps a non-owning reference to its Database for diagnostics; the
// Database must stay open for the Statement's whole lifetime.
type Statement struct {
	stmt *sqlite.Stmt
	db   *Database
	sql  string
	done bool
}

// Valid reports whether the statement holds a live compiled resource.
func (s *Statement) Valid() bool { return s.stmt != nil }

// SQL returns the text the statement was compiled from.
func (s *Statement) SQL() string { return s.sql }

// Bind binds one parameter at a 1-based positional index. The supported
// kinds are nil, int, int32, int64, float32, float64, string, []byte,
// Blob, and Value. Bound data is copied before Bind returns, so the
// caller's buffer may be reused immediately. An out-of-range index or an
// unsupported type is reported as false, never a crash.
func (s *Statement) Bind(i int, v any) bool {
	if s.stmt == nil {
		return false
	}
	if i < 1 || i > s.stmt.BindParamCount() {
		s.db.log.Error().Int("index", i).Str("sql", s.sql).Msg("bind failed: parameter index out of range")
		return false
	}
	switch v := v.(type) {
	case nil:
		s.stmt.BindNull(i)
	case int:
		s.stmt.BindInt64(i, int64(v))
	case int32:
		s.stmt.BindInt64(i, int64(v))
	case int64:
		s.stmt.BindInt64(i, v)
	case float32:
		s.stmt.BindFloat(i, float64(v))
	case float64:
		s.stmt.BindFloat(i, v)
	case string:
		s.stmt.BindText(i, v)
	case []byte:
		s.stmt.BindBytes(i, v)
	case Blob:
		s.stmt.BindBytes(i, v.Data)
	case Value:
		s.bindValue(i, v)
	default:
		s.db.log.Error().Int("index", i).Str("type", fmt.Sprintf("%T", v)).Str("sql", s.sql).Msg("bind failed: unsupported parameter type")
		return false
	}
	return true
}

func (s *Statement) bindValue(i int, v Value) {
	switch v.kind {
	case KindInteger:
		s.stmt.BindInt64(i, v.num)
	case KindReal:
		s.stmt.BindFloat(i, v.real)
	case KindText:
		s.stmt.BindText(i, string(v.data))
	case KindBlob:
		s.stmt.BindBytes(i, v.data)
	default:
		s.stmt.BindNull(i)
	}
}

// Execute binds args in order starting at index 1, then advances the
// statement exactly one step. It reports true only if that step completes
// the statement, which makes it the call for inserts, updates, deletes,
// and DDL. A step that produces a row is a failure here, not a result;
// use Fetch for queries.
func (s *Statement) Execute(args ...any) bool {
	if s.stmt == nil {
		return false
	}
	for i, arg := range args {
		if !s.Bind(i+1, arg) {
			return false
		}
	}
	row, err := s.stmt.Step()
	if err != nil {
		s.db.log.Error().Err(err).Str("sql", s.sql).Msg("statement execution failed")
		return false
	}
	if row {
		s.db.log.Error().Str("sql", s.sql).Msg("statement execution failed: statement returned a row")
		return false
	}
	s.done = true
	return true
}

// Fetch advances the cursor one row. On success it clears row and
// repopulates it with one snapshot Value per result column and reports
// true. It reports false once the result set is exhausted, when the step
// fails, or when the statement is invalid; row is left cleared.
func (s *Statement) Fetch(row Row) bool {
	clearRow(row)
	if s.stmt == nil || s.done {
		return false
	}
	hasRow, err := s.stmt.Step()
	if err != nil {
		s.db.log.Error().Err(err).Str("sql", s.sql).Msg("fetch failed")
		return false
	}
	if !hasRow {
		// Latch exhaustion: the engine would otherwise reset the
		// statement and replay the query on the next step.
		s.done = true
		return false
	}
	for i := 0; i < s.stmt.ColumnCount(); i++ {
		row[s.stmt.ColumnName(i)] = columnValue(s.stmt, i)
	}
	return true
}

// FetchAll fetches until exhaustion and returns the rows in order. An
// empty result set or an invalid statement yields an empty sequence,
// never a failure.
func (s *Statement) FetchAll() []Row {
	var rows []Row
	if s.stmt == nil {
		return rows
	}
	for {
		row := Row{}
		if !s.Fetch(row) {
			return rows
		}
		rows = append(rows, row)
	}
}

// Reset returns the statement to its pre-execution state without
// recompiling. Existing bindings are retained until overwritten by new
// Bind calls. No-op on an invalid statement.
func (s *Statement) Reset() {
	if s.stmt == nil {
		return
	}
	s.done = false
	if err := s.stmt.Reset(); err != nil {
		s.db.log.Error().Err(err).Str("sql", s.sql).Msg("reset failed")
	}
}

// ColCount returns the number of result columns.
func (s *Statement) ColCount() int {
	if s.stmt == nil {
		return 0
	}
	return s.stmt.ColumnCount()
}

// ColName returns the name of the 0-based result column i.
func (s *Statement) ColName(i int) string {
	if s.stmt == nil {
		return ""
	}
	return s.stmt.ColumnName(i)
}

// ColValue snapshots the current row's cell at the 0-based column i.
// Only meaningful while a row is available.
func (s *Statement) ColValue(i int) Value {
	if s.stmt == nil {
		return Value{}
	}
	return columnValue(s.stmt, i)
}

// ColSize returns the byte length of the current row's cell at the
// 0-based column i.
func (s *Statement) ColSize(i int) int {
	if s.stmt == nil {
		return 0
	}
	return s.stmt.ColumnLen(i)
}

// Close releases the compiled resource. Safe in any state; closing an
// invalid or already-closed statement is a no-op.
func (s *Statement) Close() error {
	if s.stmt == nil {
		return nil
	}
	err := s.stmt.Finalize()
	s.stmt = nil
	return err
}

package qlite

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a fresh database file under t.TempDir with the
// diagnostic channel captured in the returned buffer.
func openTestDB(t *testing.T) (*Database, *bytes.Buffer) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "qlite_test.db")
	buf := &bytes.Buffer{}
	db, err := Open(dbPath, WithLogger(zerolog.New(buf)))
	require.NoError(t, err, "opening test database failed")
	t.Cleanup(func() { db.Close() })
	return db, buf
}

func TestBindRoundTrip(t *testing.T) {
	db, _ := openTestDB(t)
	require.True(t, db.Exec(`CREATE TABLE kinds (i INTEGER, b INTEGER, r REAL, t TEXT, bl BLOB, n)`),
		"creating kinds table failed")

	stmt := db.Prepare(`INSERT INTO kinds (i, b, r, t, bl, n) VALUES (?, ?, ?, ?, ?, ?)`)
	require.True(t, stmt.Valid(), "insert statement should compile")
	defer stmt.Close()

	blob := []byte{0x01, 0x02, 0xff}
	require.True(t, stmt.Execute(int32(7), int64(1)<<40, 3.25, "alice", blob, nil),
		"insert execute failed")

	sel := db.Prepare(`SELECT i, b, r, t, bl, n FROM kinds`)
	require.True(t, sel.Valid(), "select statement should compile")
	defer sel.Close()

	row := Row{}
	require.True(t, sel.Fetch(row), "fetch failed")
	assert.Len(t, row, 6, "one entry per result column")

	assert.Equal(t, int32(7), row["i"].Integer(), "int32 round-trip")
	assert.Equal(t, int64(1)<<40, row["b"].BigInteger(), "int64 round-trip")
	assert.Equal(t, 3.25, row["r"].Real(), "real round-trip")
	assert.Equal(t, "alice", row["t"].Text(), "text round-trip")
	assert.Equal(t, blob, row["bl"].Blob().Data, "blob round-trip")

	assert.Equal(t, KindNull, row["n"].Type(), "bound nil arrives as NULL")
	assert.Equal(t, int32(0), row["n"].Integer(), "NULL reads as 0")
	assert.Equal(t, "", row["n"].Text(), "NULL reads as empty text")

	assert.False(t, sel.Fetch(row), "result set should be exhausted")
	assert.Empty(t, row, "row is left cleared after exhaustion")
}

func TestBindBlobValueKinds(t *testing.T) {
	db, _ := openTestDB(t)
	require.True(t, db.Exec(`CREATE TABLE bv (a BLOB, b TEXT)`), "create failed")

	stmt := db.Prepare(`INSERT INTO bv (a, b) VALUES (?, ?)`)
	defer stmt.Close()
	require.True(t, stmt.Bind(1, Blob{Data: []byte("raw")}), "binding a Blob view failed")
	require.True(t, stmt.Bind(2, TextValue("wrapped")), "binding a Value failed")
	require.True(t, stmt.Execute(), "execute failed")

	sel := db.Prepare(`SELECT a, b FROM bv`)
	defer sel.Close()
	rows := sel.FetchAll()
	require.Len(t, rows, 1)
	assert.Equal(t, "raw", rows[0]["a"].Text())
	assert.Equal(t, "wrapped", rows[0]["b"].Text())
}

func TestColumnMetadata(t *testing.T) {
	db, _ := openTestDB(t)
	require.True(t, db.Exec(`CREATE TABLE m (t TEXT, n INTEGER)`), "create failed")

	text := "héllo"
	ins := db.Prepare(`INSERT INTO m (t, n) VALUES (?, ?)`)
	require.True(t, ins.Execute(text, 9), "insert failed")
	ins.Close()

	stmt := db.Prepare(`SELECT t, n FROM m`)
	defer stmt.Close()

	assert.Equal(t, 2, stmt.ColCount())
	assert.Equal(t, "t", stmt.ColName(0))
	assert.Equal(t, "n", stmt.ColName(1))

	row := Row{}
	require.True(t, stmt.Fetch(row), "fetch failed")

	assert.Equal(t, len(text), stmt.ColSize(0), "text column size is exactly the bound byte length")
	assert.Equal(t, text, stmt.ColValue(0).Text())
	assert.Equal(t, int32(9), stmt.ColValue(1).Integer())
	assert.Equal(t, len(text), row["t"].Size(), "snapshot keeps the size")
}

func TestValueOutlivesStatement(t *testing.T) {
	db, _ := openTestDB(t)
	require.True(t, db.Exec(`CREATE TABLE v (t TEXT); INSERT INTO v VALUES ('keep')`), "setup failed")

	stmt := db.Prepare(`SELECT t FROM v`)
	row := Row{}
	require.True(t, stmt.Fetch(row), "fetch failed")
	require.NoError(t, stmt.Close(), "close failed")

	// The snapshot must stay readable after the statement is gone.
	assert.Equal(t, "keep", row["t"].Text())
	assert.Equal(t, 4, row["t"].Size())
}

func TestExecuteRejectsRowProducingStep(t *testing.T) {
	db, buf := openTestDB(t)

	stmt := db.Prepare(`SELECT 1`)
	require.True(t, stmt.Valid(), "select should compile")
	defer stmt.Close()

	assert.False(t, stmt.Execute(), "execute must fail when a row is produced")
	assert.Contains(t, buf.String(), "statement execution failed", "diagnostic should be logged")
}

func TestInvalidStatementIsInert(t *testing.T) {
	db, buf := openTestDB(t)

	stmt := db.Prepare(`THIS IS NOT SQL`)
	assert.False(t, stmt.Valid(), "malformed SQL should yield an invalid statement")
	assert.Contains(t, buf.String(), "prepare failed", "prepare diagnostic should be logged")

	row := Row{"stale": TextValue("junk")}
	assert.False(t, stmt.Fetch(row), "fetch on invalid statement fails")
	assert.Empty(t, row, "fetch leaves the row cleared")

	assert.Empty(t, stmt.FetchAll(), "fetchAll on invalid statement is an empty sequence")
	assert.False(t, stmt.Execute(), "execute on invalid statement fails")
	assert.False(t, stmt.Bind(1, "x"), "bind on invalid statement fails")
	assert.Equal(t, 0, stmt.ColCount())
	assert.Equal(t, "", stmt.ColName(0))
	assert.Equal(t, KindNull, stmt.ColValue(0).Type())
	assert.Equal(t, 0, stmt.ColSize(0))
	stmt.Reset() // must not panic
	assert.NoError(t, stmt.Close(), "closing an invalid statement is a no-op")
	assert.Equal(t, "THIS IS NOT SQL", stmt.SQL(), "compiled text is kept for diagnostics")
}

func TestBindFailures(t *testing.T) {
	db, buf := openTestDB(t)
	require.True(t, db.Exec(`CREATE TABLE b1 (x TEXT)`), "create failed")

	stmt := db.Prepare(`INSERT INTO b1 (x) VALUES (?)`)
	defer stmt.Close()

	assert.False(t, stmt.Bind(0, "x"), "index 0 is out of range (binding is 1-based)")
	assert.False(t, stmt.Bind(2, "x"), "index past the parameter count is out of range")
	assert.False(t, stmt.Bind(1, struct{ n int }{}), "unsupported type must fail, not crash")
	assert.Contains(t, buf.String(), "bind failed", "bind diagnostics should be logged")

	assert.True(t, stmt.Bind(1, "ok"), "in-range supported bind succeeds")
	assert.True(t, stmt.Execute(), "execute after bind succeeds")

	assert.False(t, stmt.Execute("a", "b"), "execute aborts when positional binds overflow")
}

func TestResetReuse(t *testing.T) {
	db, _ := openTestDB(t)
	require.True(t, db.Exec(`CREATE TABLE r (name TEXT)`), "create failed")

	stmt := db.Prepare(`INSERT INTO r (name) VALUES (?)`)
	defer stmt.Close()

	for i := 0; i < 3; i++ {
		if i > 0 {
			stmt.Reset()
		}
		require.True(t, stmt.Execute(fmt.Sprintf("name%d", i)), "execute %d after reset failed", i)
	}

	sel := db.Prepare(`SELECT name FROM r ORDER BY name`)
	defer sel.Close()

	rows := sel.FetchAll()
	require.Len(t, rows, 3, "one row per execute cycle")
	assert.Equal(t, "name0", rows[0]["name"].Text())
	assert.Equal(t, "name2", rows[2]["name"].Text())

	// Exhausted until reset, then the cursor replays from the top.
	assert.Empty(t, sel.FetchAll(), "fetchAll after exhaustion is empty")
	sel.Reset()
	assert.Len(t, sel.FetchAll(), 3, "reset rewinds the cursor")
}

func TestFetchAllEmptyResult(t *testing.T) {
	db, _ := openTestDB(t)
	require.True(t, db.Exec(`CREATE TABLE empty_t (x)`), "create failed")

	stmt := db.Prepare(`SELECT x FROM empty_t`)
	defer stmt.Close()

	assert.Empty(t, stmt.FetchAll(), "zero result rows is an empty sequence, not a failure")
}

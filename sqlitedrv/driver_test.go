package sqlitedrv

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/nsqlite/sqlpp3/sqlite3"
	"github.com/nsqlite/sqlpp3/sqlpp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(DriverName, filepath.Join(t.TempDir(), "driver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Ping())
	return db
}

func TestDriver(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	_, err := db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		score REAL,
		avatar BLOB
	)`)
	require.NoError(t, err)

	t.Run("exec returns last insert id and rows affected", func(t *testing.T) {
		res, err := db.ExecContext(ctx, "INSERT INTO users (name, score) VALUES (?, ?)", "alice", 9.5)
		require.NoError(t, err)

		id, err := res.LastInsertId()
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		affected, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("named arguments", func(t *testing.T) {
		_, err := db.ExecContext(ctx,
			"INSERT INTO users (name, avatar) VALUES (:name, @avatar)",
			sql.Named("name", "bob"), sql.Named("avatar", []byte{1, 2, 3}),
		)
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, "INSERT INTO users (name) VALUES (:name)", sql.Named("missing", "x"))
		assert.ErrorIs(t, err, sqlite3.ErrParameterIndex)
	})

	t.Run("query scans every storage class", func(t *testing.T) {
		rows, err := db.QueryContext(ctx, "SELECT id, name, score, avatar FROM users ORDER BY id")
		require.NoError(t, err)
		defer rows.Close()

		columns, err := rows.Columns()
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name", "score", "avatar"}, columns)

		types, err := rows.ColumnTypes()
		require.NoError(t, err)
		assert.Equal(t, "INTEGER", types[0].DatabaseTypeName())
		assert.Equal(t, "REAL", types[2].DatabaseTypeName())

		type user struct {
			id     int64
			name   string
			score  sql.NullFloat64
			avatar []byte
		}
		got := []user{}
		for rows.Next() {
			u := user{}
			require.NoError(t, rows.Scan(&u.id, &u.name, &u.score, &u.avatar))
			got = append(got, u)
		}
		require.NoError(t, rows.Err())

		assert.Equal(t, []user{
			{id: 1, name: "alice", score: sql.NullFloat64{Float64: 9.5, Valid: true}},
			{id: 2, name: "bob", avatar: []byte{1, 2, 3}},
		}, got)
	})

	t.Run("prepared statement reuse", func(t *testing.T) {
		stmt, err := db.PrepareContext(ctx, "SELECT name FROM users WHERE id = ?")
		require.NoError(t, err)
		defer stmt.Close()

		for id, expected := range map[int]string{1: "alice", 2: "bob"} {
			var name string
			require.NoError(t, stmt.QueryRowContext(ctx, id).Scan(&name))
			assert.Equal(t, expected, name)
		}

		var name string
		assert.ErrorIs(t, stmt.QueryRowContext(ctx, 99).Scan(&name), sql.ErrNoRows)
	})

	t.Run("unsigned above max int64", func(t *testing.T) {
		_, err := db.ExecContext(ctx, "CREATE TABLE big (v INTEGER)")
		require.NoError(t, err)

		v := uint64(17032080461028570721)
		_, err = db.ExecContext(ctx, "INSERT INTO big (v) VALUES (?)", v)
		require.NoError(t, err)

		var signed int64
		require.NoError(t, db.QueryRowContext(ctx, "SELECT v FROM big").Scan(&signed))
		assert.Equal(t, int64(v), signed)
	})

	t.Run("compile error", func(t *testing.T) {
		_, err := db.ExecContext(ctx, "INSERT INTO nowhere VALUES (1)")
		assert.ErrorContains(t, err, "could not compile query")
	})
}

func TestDriverTransactions(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	db.SetMaxOpenConns(1)

	_, err := db.Exec("CREATE TABLE items (name TEXT)")
	require.NoError(t, err)

	count := func() int {
		var n int
		require.NoError(t, db.QueryRow("SELECT count(*) FROM items").Scan(&n))
		return n
	}

	t.Run("commit", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		_, err = tx.Exec("INSERT INTO items (name) VALUES (?)", uuid.NewString())
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		assert.Equal(t, 1, count())
	})

	t.Run("rollback", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		_, err = tx.Exec("INSERT INTO items (name) VALUES (?)", uuid.NewString())
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
		assert.Equal(t, 1, count())
	})

	t.Run("unsupported options", func(t *testing.T) {
		_, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		assert.Error(t, err)
		_, err = db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
		assert.Error(t, err)
	})

	t.Run("transaction statements", func(t *testing.T) {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.ExecContext(ctx, "BEGIN")
		require.NoError(t, err)
		_, err = conn.ExecContext(ctx, "BEGIN")
		assert.ErrorIs(t, err, sqlite3.ErrTransactionActive)
		_, err = conn.ExecContext(ctx, "ROLLBACK")
		require.NoError(t, err)
		_, err = conn.ExecContext(ctx, "COMMIT")
		assert.ErrorIs(t, err, sqlite3.ErrNoTransaction)
	})

	t.Run("savepoints run inside the transaction", func(t *testing.T) {
		_, err := db.Exec("DELETE FROM items")
		require.NoError(t, err)

		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		for _, query := range []string{
			"BEGIN",
			"INSERT INTO items (name) VALUES ('kept')",
			"SAVEPOINT sp",
			"INSERT INTO items (name) VALUES ('undone')",
			"ROLLBACK TO sp",
			"RELEASE sp",
			"COMMIT",
		} {
			_, err := conn.ExecContext(ctx, query)
			require.NoError(t, err, query)
		}

		var names []string
		rows, err := conn.QueryContext(ctx, "SELECT name FROM items")
		require.NoError(t, err)
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			names = append(names, name)
		}
		require.NoError(t, rows.Close())
		assert.Equal(t, []string{"kept"}, names)
	})
}

func TestDriverBeginImmediate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "immediate.db")

	open := func() *sql.DB {
		db, err := sql.Open(DriverName, path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return db
	}
	writer := open()
	other := open()

	_, err := writer.Exec("CREATE TABLE items (name TEXT)")
	require.NoError(t, err)

	conn, err := writer.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ExecContext(ctx, "BEGIN IMMEDIATE TRANSACTION")
	require.NoError(t, err)

	_, err = other.Exec("INSERT INTO items (name) VALUES ('blocked')")
	assert.ErrorContains(t, err, "database is locked")

	_, err = conn.ExecContext(ctx, "BEGIN")
	assert.ErrorIs(t, err, sqlite3.ErrTransactionActive)
	_, err = conn.ExecContext(ctx, "COMMIT")
	require.NoError(t, err)

	_, err = other.Exec("INSERT INTO items (name) VALUES ('free')")
	assert.NoError(t, err)
}

func TestDriverRawConnection(t *testing.T) {
	ctx := context.Background()
	logs := &bytes.Buffer{}

	connector := NewConnector(
		sqlite3.ConnectionConfig{Path: ":memory:"},
		WithPostConnectQueries([]string{
			"PRAGMA foreign_keys = true",
			"CREATE TABLE tab_sample (alpha INTEGER PRIMARY KEY, beta TEXT)",
		}),
		WithLogWriter(logs),
	)
	db := sql.OpenDB(connector)
	defer db.Close()
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	tab := sqlpp.T("tab_sample")
	err = conn.Raw(func(driverConn any) error {
		raw := driverConn.(*Conn).RawConn()
		_, err := raw.Insert(ctx, sqlpp.InsertInto(tab).Set(tab.C("beta").Set("from sqlpp")))
		return err
	})
	require.NoError(t, err)

	var beta string
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT beta FROM tab_sample WHERE alpha = 1").Scan(&beta))
	assert.Equal(t, "from sqlpp", beta)

	var foreignKeys int
	require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestDriverPostConnectFailure(t *testing.T) {
	connector := NewConnector(
		sqlite3.ConnectionConfig{Path: ":memory:"},
		WithPostConnectQueries([]string{"NOT SQL"}),
	)
	db := sql.OpenDB(connector)
	defer db.Close()

	err := db.Ping()
	assert.ErrorContains(t, err, "post-connect query")
}

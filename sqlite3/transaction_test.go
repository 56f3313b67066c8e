package sqlite3

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/nsqlite/sqlpp3/internal/sqlitec"
	"github.com/nsqlite/sqlpp3/sqlpp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, conn *Connection) []string {
	t.Helper()
	res, err := conn.Select(context.Background(), sqlpp.Select(sqlpp.Count(colAlpha)).From(tabSample))
	require.NoError(t, err)
	rows := readAll(t, res)
	require.Len(t, rows, 1)
	return rows[0]
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		conn, _ := openMemory(t, false)
		require.NoError(t, conn.Execute(ctx, createTabSample))

		require.NoError(t, conn.StartTransaction(ctx))
		assert.True(t, conn.IsTransactionActive())
		_, err := conn.Insert(ctx, sqlpp.InsertInto(tabSample))
		require.NoError(t, err)
		require.NoError(t, conn.CommitTransaction(ctx))
		assert.False(t, conn.IsTransactionActive())

		assert.Equal(t, []string{"1"}, countRows(t, conn))
	})

	t.Run("rollback", func(t *testing.T) {
		conn, logs := openMemory(t, false)
		require.NoError(t, conn.Execute(ctx, createTabSample))

		require.NoError(t, conn.StartTransaction(ctx))
		_, err := conn.Insert(ctx, sqlpp.InsertInto(tabSample))
		require.NoError(t, err)
		require.NoError(t, conn.RollbackTransaction(ctx, false))

		assert.Equal(t, []string{"0"}, countRows(t, conn))
		assert.Empty(t, logs.String())
	})

	t.Run("rollback with report", func(t *testing.T) {
		conn, logs := openMemory(t, false)
		require.NoError(t, conn.StartTransaction(ctx))
		require.NoError(t, conn.RollbackTransaction(ctx, true))

		assert.True(t, hasLogMsg(logEntries(t, logs), "WARN", "rolling back unfinished transaction"))
	})

	t.Run("only one open transaction", func(t *testing.T) {
		conn, _ := openMemory(t, false)
		require.NoError(t, conn.StartTransaction(ctx))
		assert.ErrorIs(t, conn.StartTransaction(ctx), ErrTransactionActive)
		assert.True(t, conn.IsTransactionActive())
		require.NoError(t, conn.CommitTransaction(ctx))
	})

	t.Run("commit and rollback without transaction", func(t *testing.T) {
		conn, _ := openMemory(t, false)
		assert.ErrorIs(t, conn.CommitTransaction(ctx), ErrNoTransaction)
		assert.ErrorIs(t, conn.RollbackTransaction(ctx, false), ErrNoTransaction)

		require.NoError(t, conn.StartTransaction(ctx))
		require.NoError(t, conn.CommitTransaction(ctx))
		assert.ErrorIs(t, conn.CommitTransaction(ctx), ErrNoTransaction)
	})

	t.Run("failed commit finishes the transaction", func(t *testing.T) {
		conn, _ := openMemory(t, false)
		require.NoError(t, conn.StartTransaction(ctx))

		// Ending the transaction behind the connection's back makes the
		// COMMIT fail.
		require.NoError(t, conn.Execute(ctx, "ROLLBACK"))
		assert.Error(t, conn.CommitTransaction(ctx))
		assert.False(t, conn.IsTransactionActive())
		require.NoError(t, conn.StartTransaction(ctx))
	})

	t.Run("report rollback failure", func(t *testing.T) {
		conn, logs := openMemory(t, false)
		conn.ReportRollbackFailure("disk on fire")

		entries := logEntries(t, logs)
		require.Len(t, entries, 1)
		assert.Equal(t, "ERROR", entries[0]["level"])
		assert.Equal(t, "transaction", entries[0]["ns"])
		assert.Equal(t, "disk on fire", entries[0]["message"])
	})
}

func TestTransactionGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		conn, logs := openMemory(t, false)
		require.NoError(t, conn.Execute(ctx, createTabSample))

		func() {
			tx, err := StartTransaction(ctx, conn)
			require.NoError(t, err)
			defer tx.End()

			_, err = conn.Insert(ctx, sqlpp.InsertInto(tabSample))
			require.NoError(t, err)
			require.NoError(t, tx.Commit(ctx))
		}()

		assert.Equal(t, []string{"1"}, countRows(t, conn))
		assert.Empty(t, logs.String())
	})

	t.Run("explicit rollback", func(t *testing.T) {
		conn, logs := openMemory(t, false)
		require.NoError(t, conn.Execute(ctx, createTabSample))

		func() {
			tx, err := StartTransaction(ctx, conn)
			require.NoError(t, err)
			defer tx.End()

			_, err = conn.Insert(ctx, sqlpp.InsertInto(tabSample))
			require.NoError(t, err)
			require.NoError(t, tx.Rollback(ctx))
		}()

		assert.Equal(t, []string{"0"}, countRows(t, conn))
		assert.Empty(t, logs.String())
	})

	t.Run("end rolls back unfinished transaction", func(t *testing.T) {
		conn, logs := openMemory(t, false)
		require.NoError(t, conn.Execute(ctx, createTabSample))

		func() {
			tx, err := StartTransaction(ctx, conn)
			require.NoError(t, err)
			defer tx.End()

			_, err = conn.Insert(ctx, sqlpp.InsertInto(tabSample))
			require.NoError(t, err)
		}()

		assert.False(t, conn.IsTransactionActive())
		assert.Equal(t, []string{"0"}, countRows(t, conn))
		assert.True(t, hasLogMsg(logEntries(t, logs), "WARN", "rolling back unfinished transaction"))
	})

	t.Run("end reports rollback failure", func(t *testing.T) {
		conn, logs := openMemory(t, false)

		tx, err := StartTransaction(ctx, conn)
		require.NoError(t, err)
		require.NoError(t, conn.Execute(ctx, "ROLLBACK"))
		tx.End()
		tx.End()

		entries := logEntries(t, logs)
		assert.True(t, hasLogMsg(entries, "WARN", "rolling back unfinished transaction"))
		assert.True(t, hasLogMsg(entries, "ERROR", "rollback failed"))
	})

	t.Run("start fails while another is open", func(t *testing.T) {
		conn, _ := openMemory(t, false)
		require.NoError(t, conn.StartTransaction(ctx))

		tx, err := StartTransaction(ctx, conn)
		assert.Nil(t, tx)
		assert.ErrorIs(t, err, ErrTransactionActive)
	})
}

func TestColumnTypes(t *testing.T) {
	assert.Equal(t, 5, ColumnTypes.Len())
	assert.True(t, ColumnTypes.Contains(ColumnBlob))
	assert.Equal(t, "float", ColumnFloat.String())

	parsed := ColumnTypes.Parse("text")
	require.NotNil(t, parsed)
	assert.Equal(t, ColumnText, *parsed)
	assert.Nil(t, ColumnTypes.Parse("date"))
}

func TestParseTransactionStatement(t *testing.T) {
	tests := []struct {
		query string
		kind  StatementKind
		mode  TransactionMode
	}{
		{query: "BEGIN", kind: StatementBegin, mode: TransactionDeferred},
		{query: "begin deferred transaction;", kind: StatementBegin, mode: TransactionDeferred},
		{query: "BEGIN IMMEDIATE", kind: StatementBegin, mode: TransactionImmediate},
		{query: "  Begin Exclusive Transaction ; ", kind: StatementBegin, mode: TransactionExclusive},
		{query: "COMMIT", kind: StatementCommit, mode: TransactionDeferred},
		{query: "END TRANSACTION", kind: StatementCommit, mode: TransactionDeferred},
		{query: "ROLLBACK;", kind: StatementRollback, mode: TransactionDeferred},
		{query: "ROLLBACK TRANSACTION", kind: StatementRollback, mode: TransactionDeferred},
		{query: "ROLLBACK TO sp", kind: StatementUnknown, mode: TransactionDeferred},
		{query: "ROLLBACK TRANSACTION TO SAVEPOINT sp", kind: StatementUnknown, mode: TransactionDeferred},
		{query: "SAVEPOINT sp", kind: StatementUnknown, mode: TransactionDeferred},
		{query: "RELEASE sp", kind: StatementUnknown, mode: TransactionDeferred},
		{query: "BEGIN SOMETHING", kind: StatementUnknown, mode: TransactionDeferred},
		{query: "beginning", kind: StatementUnknown, mode: TransactionDeferred},
		{query: "", kind: StatementUnknown, mode: TransactionDeferred},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			kind, mode := ParseTransactionStatement(tt.query)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.mode, mode)
		})
	}
}

func TestTransactionModes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "modes.db")

	open := func() *Connection {
		conn, err := Open(ConnectionConfig{Path: path, LogWriter: &bytes.Buffer{}})
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}
	writer := open()
	other := open()
	require.NoError(t, writer.Execute(ctx, createTabSample))

	t.Run("deferred takes no lock", func(t *testing.T) {
		require.NoError(t, writer.StartTransactionMode(ctx, TransactionDeferred))
		_, err := other.Insert(ctx, sqlpp.InsertInto(tabSample))
		assert.NoError(t, err)
		require.NoError(t, writer.CommitTransaction(ctx))
	})

	t.Run("immediate takes the write lock", func(t *testing.T) {
		require.NoError(t, writer.StartTransactionMode(ctx, TransactionImmediate))
		assert.True(t, writer.IsTransactionActive())

		_, err := other.Insert(ctx, sqlpp.InsertInto(tabSample))
		var sqliteErr *sqlitec.Error
		require.ErrorAs(t, err, &sqliteErr)
		assert.Equal(t, sqlitec.SQLITE_BUSY, sqliteErr.Primary())

		require.NoError(t, writer.RollbackTransaction(ctx, false))
		_, err = other.Insert(ctx, sqlpp.InsertInto(tabSample))
		assert.NoError(t, err)
	})

	assert.Equal(t, 3, TransactionModes.Len())
	assert.Equal(t, "BEGIN EXCLUSIVE", TransactionExclusive.beginStatement())
}

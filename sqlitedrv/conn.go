package sqlitedrv

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/nsqlite/sqlpp3/sqlite3"
)

var (
	_ driver.Conn               = (*Conn)(nil)
	_ driver.ConnPrepareContext = (*Conn)(nil)
	_ driver.ConnBeginTx        = (*Conn)(nil)
	_ driver.ExecerContext      = (*Conn)(nil)
	_ driver.NamedValueChecker  = (*Conn)(nil)
	_ driver.Validator          = (*Conn)(nil)
	_ driver.SessionResetter    = (*Conn)(nil)
)

// Conn implements the database/sql/driver.Conn interface
type Conn struct {
	conn *sqlite3.Connection
}

// RawConn returns the underlying connection, for use with sql.Conn.Raw.
func (conn *Conn) RawConn() *sqlite3.Connection {
	return conn.conn
}

// Close closes the connection to the SQLite database
func (conn *Conn) Close() error {
	if err := conn.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// Prepare compiles a query.
func (conn *Conn) Prepare(query string) (driver.Stmt, error) {
	return conn.PrepareContext(context.Background(), query)
}

// PrepareContext compiles a query. Only the first statement of query is
// compiled.
func (conn *Conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ps, err := conn.conn.PrepareSQL(query, nil)
	if err != nil {
		return nil, err
	}
	return &Stmt{conn: conn, ps: ps}, nil
}

// ExecContext runs a statement without keeping it prepared. BEGIN, COMMIT
// and ROLLBACK of a whole transaction go through the connection's
// transaction bookkeeping, so a transaction started this way can not
// overlap with BeginTx. Savepoint statements run as they are.
func (conn *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if len(args) == 0 {
		switch kind, mode := sqlite3.ParseTransactionStatement(query); kind {
		case sqlite3.StatementBegin:
			return driver.RowsAffected(0), conn.conn.StartTransactionMode(ctx, mode)
		case sqlite3.StatementCommit:
			return driver.RowsAffected(0), conn.conn.CommitTransaction(ctx)
		case sqlite3.StatementRollback:
			return driver.RowsAffected(0), conn.conn.RollbackTransaction(ctx, false)
		}
	}

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	return stmt.(*Stmt).ExecContext(ctx, args)
}

// Begin starts a transaction.
func (conn *Conn) Begin() (driver.Tx, error) {
	return conn.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx starts a transaction. SQLite transactions are serializable, other
// isolation levels and read-only transactions are rejected.
func (conn *Conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	level := sql.IsolationLevel(opts.Isolation)
	if level != sql.LevelDefault && level != sql.LevelSerializable {
		return nil, fmt.Errorf("unsupported isolation level %s", level)
	}
	if opts.ReadOnly {
		return nil, errors.New("read-only transactions are not supported")
	}

	if err := conn.conn.StartTransaction(ctx); err != nil {
		return nil, err
	}
	return &Tx{conn: conn.conn}, nil
}

// CheckNamedValue accepts unsigned integers above math.MaxInt64, which
// are folded into signed integers when bound. Everything else goes through
// the default conversion.
func (conn *Conn) CheckNamedValue(nv *driver.NamedValue) error {
	switch nv.Value.(type) {
	case uint64, uint:
		return nil
	}

	value, err := driver.DefaultParameterConverter.ConvertValue(nv.Value)
	if err != nil {
		return err
	}
	nv.Value = value
	return nil
}

// ResetSession reports a closed connection as bad so the pool drops it.
func (conn *Conn) ResetSession(_ context.Context) error {
	if !conn.conn.IsOpen() {
		return driver.ErrBadConn
	}
	return nil
}

// IsValid reports whether the connection can be reused.
func (conn *Conn) IsValid() bool {
	return conn.conn.IsOpen()
}

// Tx implements the database/sql/driver.Tx interface
type Tx struct {
	conn *sqlite3.Connection
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return tx.conn.CommitTransaction(context.Background())
}

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error {
	return tx.conn.RollbackTransaction(context.Background(), false)
}

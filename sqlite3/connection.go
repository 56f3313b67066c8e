package sqlite3

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nsqlite/sqlpp3/internal/log"
	"github.com/nsqlite/sqlpp3/sqlpp"
)

// Connection is an open SQLite database.
type Connection struct {
	handle            *handle
	transactionActive bool
}

// Open opens the database described by config.
func Open(config ConnectionConfig) (*Connection, error) {
	h, err := openHandle(config)
	if err != nil {
		return nil, err
	}
	return &Connection{handle: h}, nil
}

// Config returns the config the connection was opened with.
func (c *Connection) Config() ConnectionConfig {
	return c.handle.config
}

// Close closes the database. Closing an already closed connection is a
// no-op.
func (c *Connection) Close() error {
	if !c.handle.conn.IsOpen() {
		return nil
	}
	return c.handle.close()
}

// IsOpen reports whether the connection has not been closed yet.
func (c *Connection) IsOpen() bool {
	return c.handle.conn.IsOpen()
}

func (c *Connection) checkOpen() error {
	if !c.handle.conn.IsOpen() {
		return ErrClosed
	}
	return nil
}

// serialize writes node with the SQLite dialect.
func (c *Connection) serialize(node sqlpp.Node) (*Serializer, error) {
	s := NewSerializer()
	if err := s.Serialize(node); err != nil {
		return nil, err
	}
	return s, nil
}

// Select runs a select and returns its rows. The first row is fetched by
// the first call to CharResult.Next.
func (c *Connection) Select(ctx context.Context, node sqlpp.Node) (*CharResult, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	s, err := c.serialize(node)
	if err != nil {
		return nil, err
	}

	stmt, err := c.handle.prepareQuery(s.String())
	if err != nil {
		return nil, err
	}
	return newCharResult(ctx, c.handle, stmt, uuid.NewString()), nil
}

// Insert runs an insert and returns the rowid of the inserted row, or zero
// if there is none.
func (c *Connection) Insert(ctx context.Context, node sqlpp.Node) (int64, error) {
	if err := c.run(ctx, node); err != nil {
		return 0, err
	}
	return c.handle.conn.LastInsertRowID(), nil
}

// Update runs an update and returns the number of changed rows.
func (c *Connection) Update(ctx context.Context, node sqlpp.Node) (int64, error) {
	if err := c.run(ctx, node); err != nil {
		return 0, err
	}
	return c.handle.conn.RowsAffected(), nil
}

// Remove runs a delete and returns the number of removed rows.
func (c *Connection) Remove(ctx context.Context, node sqlpp.Node) (int64, error) {
	if err := c.run(ctx, node); err != nil {
		return 0, err
	}
	return c.handle.conn.RowsAffected(), nil
}

func (c *Connection) run(ctx context.Context, node sqlpp.Node) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	s, err := c.serialize(node)
	if err != nil {
		return err
	}
	return c.handle.executeQuery(ctx, s.String())
}

// Execute runs an arbitrary statement, for example a CREATE TABLE. Rows it
// returns are discarded.
func (c *Connection) Execute(ctx context.Context, command string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return c.handle.executeQuery(ctx, command)
}

// Escape doubles the single quotes of s. It does not add surrounding
// quotes.
func (c *Connection) Escape(s string) string {
	return escape(s)
}

// LastInsertRowID returns the rowid of the most recent successful insert,
// zero once the connection is closed.
func (c *Connection) LastInsertRowID() int64 {
	return c.handle.conn.LastInsertRowID()
}

// Changes returns the number of rows changed by the most recent insert,
// update or delete, zero once the connection is closed.
func (c *Connection) Changes() int64 {
	return c.handle.conn.RowsAffected()
}

// Prepare compiles node into a statement that can be bound and run
// repeatedly. The caller must Close it.
func (c *Connection) Prepare(ctx context.Context, node sqlpp.Node) (*PreparedStatement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	s, err := c.serialize(node)
	if err != nil {
		return nil, err
	}
	return c.PrepareSQL(s.String(), s.Parameters())
}

// PrepareSQL compiles query as is. params describes its placeholders for
// BindNamed and may be nil.
func (c *Connection) PrepareSQL(query string, params []sqlpp.Parameter) (*PreparedStatement, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	stmt, err := c.handle.prepareQuery(query)
	if err != nil {
		return nil, err
	}
	return newPreparedStatement(c.handle, stmt, params), nil
}

// RunPreparedSelect runs a prepared select with its current bindings.
func (c *Connection) RunPreparedSelect(ctx context.Context, ps *PreparedStatement) (*BindResult, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if err := ps.reset(); err != nil {
		return nil, err
	}
	return newBindResult(ctx, ps), nil
}

// RunPreparedInsert runs a prepared insert and returns the rowid of the
// inserted row.
func (c *Connection) RunPreparedInsert(ctx context.Context, ps *PreparedStatement) (int64, error) {
	if err := c.runPrepared(ctx, ps); err != nil {
		return 0, err
	}
	return c.handle.conn.LastInsertRowID(), nil
}

// RunPreparedUpdate runs a prepared update and returns the number of
// changed rows.
func (c *Connection) RunPreparedUpdate(ctx context.Context, ps *PreparedStatement) (int64, error) {
	if err := c.runPrepared(ctx, ps); err != nil {
		return 0, err
	}
	return c.handle.conn.RowsAffected(), nil
}

// RunPreparedRemove runs a prepared delete and returns the number of
// removed rows.
func (c *Connection) RunPreparedRemove(ctx context.Context, ps *PreparedStatement) (int64, error) {
	if err := c.runPrepared(ctx, ps); err != nil {
		return 0, err
	}
	return c.handle.conn.RowsAffected(), nil
}

// RunPreparedExecute runs any prepared statement once.
func (c *Connection) RunPreparedExecute(ctx context.Context, ps *PreparedStatement) error {
	return c.runPrepared(ctx, ps)
}

func (c *Connection) runPrepared(ctx context.Context, ps *PreparedStatement) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := ps.reset(); err != nil {
		return err
	}

	c.handle.debug(log.NsStatement, "executing prepared statement", log.KV{"statement": ps.id})

	ps.stepped = true
	if _, err := c.handle.step(ctx, ps.stmt); err != nil {
		return fmt.Errorf("could not execute statement: %w (query was >>%s<<)", err, ps.SQL())
	}
	return nil
}

// Classify tells apart transaction control statements, statements that
// only read and statements that write. Savepoint statements are
// classified by their effect like any other statement.
func (c *Connection) Classify(query string) (StatementKind, error) {
	if kind, _ := ParseTransactionStatement(query); kind != StatementUnknown {
		return kind, nil
	}

	if err := c.checkOpen(); err != nil {
		return StatementUnknown, err
	}
	stmt, err := c.handle.conn.Prepare(query)
	if err != nil {
		return StatementUnknown, fmt.Errorf("could not compile query: %w (query was >>%s<<)", err, query)
	}
	defer stmt.Finalize()

	if stmt.ReadOnly() {
		return StatementRead, nil
	}
	return StatementWrite, nil
}

// StartTransaction begins a deferred transaction. Only one transaction can
// be open at a time.
func (c *Connection) StartTransaction(ctx context.Context) error {
	return c.StartTransactionMode(ctx, TransactionDeferred)
}

// StartTransactionMode begins a transaction in the given locking mode.
func (c *Connection) StartTransactionMode(ctx context.Context, mode TransactionMode) error {
	if c.transactionActive {
		return ErrTransactionActive
	}
	if err := c.Execute(ctx, mode.beginStatement()); err != nil {
		return err
	}
	c.transactionActive = true
	return nil
}

// CommitTransaction commits the open transaction. The transaction counts
// as finished even when the commit fails.
func (c *Connection) CommitTransaction(ctx context.Context) error {
	if !c.transactionActive {
		return fmt.Errorf("cannot commit a finished or failed transaction: %w", ErrNoTransaction)
	}
	c.transactionActive = false
	return c.Execute(ctx, "COMMIT")
}

// RollbackTransaction rolls back the open transaction. With report set a
// warning is logged first.
func (c *Connection) RollbackTransaction(ctx context.Context, report bool) error {
	if !c.transactionActive {
		return fmt.Errorf("cannot rollback a finished or failed transaction: %w", ErrNoTransaction)
	}
	if report {
		c.handle.logger.WarnNs(log.NsTransaction, "rolling back unfinished transaction", log.KV{
			"handle": c.handle.id,
		})
	}
	c.transactionActive = false
	return c.Execute(ctx, "ROLLBACK")
}

// ReportRollbackFailure logs a failed rollback. It is used where the
// error can not be returned, such as in Transaction.End.
func (c *Connection) ReportRollbackFailure(msg string) {
	c.handle.logger.ErrorNs(log.NsTransaction, "rollback failed", log.KV{
		"handle":  c.handle.id,
		"message": msg,
	})
}

// IsTransactionActive reports whether a transaction is open.
func (c *Connection) IsTransactionActive() bool {
	return c.transactionActive
}

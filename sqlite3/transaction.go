package sqlite3

import "context"

// Transaction is an open transaction on a Connection. Call End in a defer
// right after starting it; it rolls the transaction back unless Commit or
// Rollback was called.
//
//	tx, err := sqlite3.StartTransaction(ctx, conn)
//	if err != nil {
//		return err
//	}
//	defer tx.End()
type Transaction struct {
	conn     *Connection
	finished bool
}

// StartTransaction begins a transaction on conn.
func StartTransaction(ctx context.Context, conn *Connection) (*Transaction, error) {
	if err := conn.StartTransaction(ctx); err != nil {
		return nil, err
	}
	return &Transaction{conn: conn}, nil
}

// Commit commits the transaction.
func (t *Transaction) Commit(ctx context.Context) error {
	t.finished = true
	return t.conn.CommitTransaction(ctx)
}

// Rollback rolls the transaction back without reporting it.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.finished = true
	return t.conn.RollbackTransaction(ctx, false)
}

// End rolls back a transaction that is still open, logging a warning.
// Failures of that rollback are logged with ReportRollbackFailure.
func (t *Transaction) End() {
	if t.finished {
		return
	}
	t.finished = true
	if err := t.conn.RollbackTransaction(context.Background(), true); err != nil {
		t.conn.ReportRollbackFailure(err.Error())
	}
}

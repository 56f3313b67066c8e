package sqlitedrv

import (
	"context"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"

	"github.com/nsqlite/sqlpp3/sqlite3"
)

var (
	_ driver.Stmt                           = (*Stmt)(nil)
	_ driver.StmtExecContext                = (*Stmt)(nil)
	_ driver.StmtQueryContext               = (*Stmt)(nil)
	_ driver.Rows                           = (*Rows)(nil)
	_ driver.RowsColumnTypeDatabaseTypeName = (*Rows)(nil)
)

// Stmt implements the database/sql/driver.Stmt interface
type Stmt struct {
	conn *Conn
	ps   *sqlite3.PreparedStatement
}

// Close finalizes the statement.
func (stmt *Stmt) Close() error {
	return stmt.ps.Close()
}

// NumInput returns the number of placeholders.
func (stmt *Stmt) NumInput() int {
	return stmt.ps.ParameterCount()
}

// Exec runs the statement with positional arguments.
func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return stmt.ExecContext(context.Background(), valuesToNamed(args))
}

// Query runs the statement with positional arguments.
func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return stmt.QueryContext(context.Background(), valuesToNamed(args))
}

// ExecContext binds args and runs the statement once.
func (stmt *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	if err := stmt.bind(args); err != nil {
		return nil, err
	}

	conn := stmt.conn.conn
	if err := conn.RunPreparedExecute(ctx, stmt.ps); err != nil {
		return nil, err
	}
	return &Result{
		lastInsertID: conn.LastInsertRowID(),
		rowsAffected: conn.Changes(),
	}, nil
}

// QueryContext binds args and starts reading rows.
func (stmt *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if err := stmt.bind(args); err != nil {
		return nil, err
	}

	res, err := stmt.conn.conn.RunPreparedSelect(ctx, stmt.ps)
	if err != nil {
		return nil, err
	}
	return &Rows{res: res}, nil
}

// bind replaces every binding of the statement with args. Named args are
// looked up with the :, @ and $ prefixes.
func (stmt *Stmt) bind(args []driver.NamedValue) error {
	if err := stmt.ps.ClearBindings(); err != nil {
		return err
	}

	for _, arg := range args {
		index := arg.Ordinal - 1
		if arg.Name != "" {
			index = stmt.namedIndex(arg.Name)
			if index < 0 {
				return fmt.Errorf("%w: %q", sqlite3.ErrParameterIndex, arg.Name)
			}
		}
		if err := stmt.ps.Bind(index, arg.Value); err != nil {
			return err
		}
	}
	return nil
}

func (stmt *Stmt) namedIndex(name string) int {
	for _, prefix := range []string{":", "@", "$"} {
		if index := stmt.ps.ParameterIndex(prefix + name); index >= 0 {
			return index
		}
	}
	return -1
}

func valuesToNamed(args []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return named
}

// Rows implements the database/sql/driver.Rows interface
type Rows struct {
	res *sqlite3.BindResult
}

// Columns returns the names of the result columns.
func (rows *Rows) Columns() []string {
	return rows.res.ColumnNames()
}

// Close stops reading rows. The statement stays prepared.
func (rows *Rows) Close() error {
	return rows.res.Close()
}

// Next reads the next row into dest using the storage class of each value.
func (rows *Rows) Next(dest []driver.Value) error {
	hasRow, err := rows.res.Next()
	if err != nil {
		return err
	}
	if !hasRow {
		return io.EOF
	}

	for i := range dest {
		switch rows.res.ColumnType(i) {
		case sqlite3.ColumnInteger:
			dest[i], _ = rows.res.Integral(i)
		case sqlite3.ColumnFloat:
			dest[i], _ = rows.res.FloatingPoint(i)
		case sqlite3.ColumnText:
			dest[i], _ = rows.res.Text(i)
		case sqlite3.ColumnBlob:
			dest[i], _ = rows.res.Blob(i)
		default:
			dest[i] = nil
		}
	}
	return nil
}

// ColumnTypeDatabaseTypeName returns the declared type of the column in
// upper case.
func (rows *Rows) ColumnTypeDatabaseTypeName(index int) string {
	return strings.ToUpper(rows.res.ColumnDeclType(index))
}

// Result implements the database/sql/driver.Result interface
type Result struct {
	lastInsertID int64
	rowsAffected int64
}

// LastInsertId returns the rowid of the last inserted row.
func (r *Result) LastInsertId() (int64, error) {
	return r.lastInsertID, nil
}

// RowsAffected returns the number of rows changed by the statement.
func (r *Result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

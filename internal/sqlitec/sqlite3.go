package sqlitec

/*
#cgo LDFLAGS: -lsqlite3
#include <sqlite3.h>
#include <stdlib.h>

static int cust_sqlite3_bind_text(sqlite3_stmt *stmt, int idx, const char *value, int n) {
	return sqlite3_bind_text(stmt, idx, value, n, SQLITE_TRANSIENT);
}

static int cust_sqlite3_bind_blob(sqlite3_stmt *stmt, int idx, const void *value, int n) {
	return sqlite3_bind_blob(stmt, idx, value, n, SQLITE_TRANSIENT);
}
*/
import "C"
import (
	"errors"
	"sync"
	"unsafe"
)

// ErrNilStatement is returned when operating on a finalized or never
// prepared statement.
var ErrNilStatement = errors.New("statement is nil")

// Conn is an open database handle. Close and Interrupt may be called
// from different goroutines.
//
// https://www.sqlite.org/c3ref/sqlite3.html
type Conn struct {
	mu  sync.Mutex
	cDB *C.sqlite3
}

// Stmt is a compiled statement owned by a Conn.
//
// https://www.sqlite.org/c3ref/stmt.html
type Stmt struct {
	conn  *Conn
	cStmt *C.sqlite3_stmt
}

// ErrMsg returns the last error message from the SQLite database.
//
// https://www.sqlite.org/c3ref/errcode.html
func (conn *Conn) ErrMsg() string {
	if conn.cDB == nil {
		return "database connection is nil"
	}
	return C.GoString(C.sqlite3_errmsg(conn.cDB))
}

// lastError wraps resCode together with the current error message.
func (conn *Conn) lastError(resCode C.int) error {
	return &Error{Code: int(resCode), Msg: conn.ErrMsg()}
}

// Open opens a new SQLite database connection using the given path, open
// flags and VFS module name. An empty vfs selects the default VFS.
//
// https://www.sqlite.org/c3ref/open.html
func Open(filePath string, flags int, vfs string) (*Conn, error) {
	cFilePath := C.CString(filePath)
	defer C.free(unsafe.Pointer(cFilePath))

	var cVfs *C.char
	if vfs != "" {
		cVfs = C.CString(vfs)
		defer C.free(unsafe.Pointer(cVfs))
	}

	var db *C.sqlite3
	resCode := C.sqlite3_open_v2(cFilePath, &db, C.int(flags), cVfs)
	if resCode != SQLITE_OK {
		err := &Error{Code: int(resCode)}
		if db != nil {
			err.Msg = C.GoString(C.sqlite3_errmsg(db))
		}
		_ = C.sqlite3_close(db)
		return nil, err
	}

	return &Conn{cDB: db}, nil
}

// Close releases the database handle. Closing twice is a no-op.
//
// https://www.sqlite.org/c3ref/close.html
func (conn *Conn) Close() error {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.cDB == nil {
		return nil
	}

	// close_v2 defers the release until statements still open are finalized.
	resCode := C.sqlite3_close_v2(conn.cDB)
	if resCode != SQLITE_OK {
		return conn.lastError(resCode)
	}
	conn.cDB = nil

	return nil
}

// IsOpen reports whether the connection has not been closed yet.
func (conn *Conn) IsOpen() bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.cDB != nil
}

// Interrupt causes any pending operation on the connection to abort at
// its earliest opportunity. It is safe to call from another goroutine.
//
// https://www.sqlite.org/c3ref/interrupt.html
func (conn *Conn) Interrupt() {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.cDB != nil {
		C.sqlite3_interrupt(conn.cDB)
	}
}

// LastInsertRowID returns the rowid of the last successful INSERT on
// this connection, zero once it is closed.
//
// https://www.sqlite.org/c3ref/last_insert_rowid.html
func (conn *Conn) LastInsertRowID() int64 {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.cDB == nil {
		return 0
	}
	return int64(C.sqlite3_last_insert_rowid(conn.cDB))
}

// RowsAffected returns the number of rows changed by the last INSERT,
// UPDATE or DELETE on this connection, zero once it is closed.
//
// https://www.sqlite.org/c3ref/changes.html
func (conn *Conn) RowsAffected() int64 {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.cDB == nil {
		return 0
	}
	return int64(C.sqlite3_changes(conn.cDB))
}

// Prepare compiles the first statement of query. Trailing statements
// are ignored.
//
// A query holding only whitespace or comments yields a statement that
// steps to completion immediately.
//
// https://www.sqlite.org/c3ref/prepare.html
func (conn *Conn) Prepare(query string) (*Stmt, error) {
	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	var cStmt *C.sqlite3_stmt
	resCode := C.sqlite3_prepare_v2(conn.cDB, cQuery, C.int(len(query)), &cStmt, nil)
	if resCode != SQLITE_OK {
		return nil, conn.lastError(resCode)
	}
	return &Stmt{conn: conn, cStmt: cStmt}, nil
}

// SQL returns the text used to create the statement.
//
// https://www.sqlite.org/c3ref/expanded_sql.html
func (stmt *Stmt) SQL() string {
	if stmt.cStmt == nil {
		return ""
	}
	return C.GoString(C.sqlite3_sql(stmt.cStmt))
}

// ReadOnly reports whether stepping the statement never writes.
//
// https://www.sqlite.org/c3ref/stmt_readonly.html
func (stmt *Stmt) ReadOnly() bool {
	return C.sqlite3_stmt_readonly(stmt.cStmt) != 0
}

// BindParameterCount returns the largest parameter index of the statement.
//
// https://www.sqlite.org/c3ref/bind_parameter_count.html
func (stmt *Stmt) BindParameterCount() int {
	if stmt.cStmt == nil {
		return 0
	}
	return int(C.sqlite3_bind_parameter_count(stmt.cStmt))
}

// BindParameterIndex returns the index of the named parameter, or zero
// when no parameter carries that name.
//
// https://www.sqlite.org/c3ref/bind_parameter_index.html
func (stmt *Stmt) BindParameterIndex(name string) int {
	if stmt.cStmt == nil {
		return 0
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return int(C.sqlite3_bind_parameter_index(stmt.cStmt, cName))
}

// bindResult converts a bind result code into an error.
func (stmt *Stmt) bindResult(resCode C.int) error {
	if resCode != SQLITE_OK {
		return stmt.conn.lastError(resCode)
	}
	return nil
}

// BindInt64 binds a 64-bit integer at the 1-based index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindInt64(index int, value int64) error {
	if stmt.cStmt == nil {
		return ErrNilStatement
	}
	return stmt.bindResult(C.sqlite3_bind_int64(stmt.cStmt, C.int(index), C.sqlite3_int64(value)))
}

// BindFloat64 binds a double at the 1-based index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindFloat64(index int, value float64) error {
	if stmt.cStmt == nil {
		return ErrNilStatement
	}
	return stmt.bindResult(C.sqlite3_bind_double(stmt.cStmt, C.int(index), C.double(value)))
}

// BindText binds a string parameter at the given index. SQLite keeps its
// own copy of the value.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindText(index int, value string) error {
	if stmt.cStmt == nil {
		return ErrNilStatement
	}
	cStr := C.CString(value)
	defer C.free(unsafe.Pointer(cStr))

	return stmt.bindResult(C.cust_sqlite3_bind_text(stmt.cStmt, C.int(index), cStr, C.int(len(value))))
}

// BindBlob binds a byte slice parameter at the given index. A nil slice
// binds NULL and an empty one binds a zero-length blob.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindBlob(index int, data []byte) error {
	if stmt.cStmt == nil {
		return ErrNilStatement
	}
	if data == nil {
		return stmt.BindNull(index)
	}
	if len(data) == 0 {
		return stmt.bindResult(C.sqlite3_bind_zeroblob(stmt.cStmt, C.int(index), 0))
	}

	return stmt.bindResult(C.cust_sqlite3_bind_blob(stmt.cStmt, C.int(index), unsafe.Pointer(&data[0]), C.int(len(data))))
}

// BindNull binds NULL at the 1-based index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindNull(index int) error {
	if stmt.cStmt == nil {
		return ErrNilStatement
	}
	return stmt.bindResult(C.sqlite3_bind_null(stmt.cStmt, C.int(index)))
}

// ClearBindings resets all bound parameters to NULL.
//
// https://www.sqlite.org/c3ref/clear_bindings.html
func (stmt *Stmt) ClearBindings() error {
	if stmt.cStmt == nil {
		return ErrNilStatement
	}
	return stmt.bindResult(C.sqlite3_clear_bindings(stmt.cStmt))
}

// Step runs the statement until the next row. It returns false without
// error once the statement is done.
//
// https://www.sqlite.org/c3ref/step.html
func (stmt *Stmt) Step() (bool, error) {
	if stmt.cStmt == nil {
		return false, nil
	}

	switch resCode := C.sqlite3_step(stmt.cStmt); resCode {
	case SQLITE_ROW:
		return true, nil
	case SQLITE_DONE:
		return false, nil
	default:
		return false, stmt.conn.lastError(resCode)
	}
}

// Reset rewinds the statement so it can be stepped again. Bindings are
// retained. The returned error reflects the outcome of the previous step.
//
// https://www.sqlite.org/c3ref/reset.html
func (stmt *Stmt) Reset() error {
	if stmt.cStmt == nil {
		return nil
	}
	if resCode := C.sqlite3_reset(stmt.cStmt); resCode != SQLITE_OK {
		return stmt.conn.lastError(resCode)
	}
	return nil
}

// ColumnCount returns the number of result columns, zero for statements
// that return no data.
//
// https://www.sqlite.org/c3ref/column_count.html
func (stmt *Stmt) ColumnCount() int {
	if stmt.cStmt == nil {
		return 0
	}
	return int(C.sqlite3_column_count(stmt.cStmt))
}

// ColumnName returns the name assigned to a result column.
//
// https://www.sqlite.org/c3ref/column_name.html
func (stmt *Stmt) ColumnName(colIndex int) string {
	return C.GoString(C.sqlite3_column_name(stmt.cStmt, C.int(colIndex)))
}

// ColumnDeclType returns the declared type of the column at the given index.
//
// https://www.sqlite.org/c3ref/column_decltype.html
func (stmt *Stmt) ColumnDeclType(colIndex int) string {
	return C.GoString(C.sqlite3_column_decltype(stmt.cStmt, C.int(colIndex)))
}

// ColumnType returns the fundamental datatype of the value at the given
// index in the current row.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnType(colIndex int) int {
	return int(C.sqlite3_column_type(stmt.cStmt, C.int(colIndex)))
}

// ColumnInt64 reads a column of the current row as a 64-bit integer.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnInt64(colIndex int) int64 {
	return int64(C.sqlite3_column_int64(stmt.cStmt, C.int(colIndex)))
}

// ColumnFloat64 reads a column of the current row as a double.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnFloat64(colIndex int) float64 {
	return float64(C.sqlite3_column_double(stmt.cStmt, C.int(colIndex)))
}

// ColumnText reads a column of the current row as text, "" for NULL.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnText(colIndex int) string {
	raw := stmt.ColumnRawText(colIndex)
	if raw == nil {
		return ""
	}
	return string(raw)
}

// ColumnRawText returns a copy of the text representation of the column at
// the given index. It is nil for SQL NULL and non-nil, possibly empty,
// otherwise.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnRawText(colIndex int) []byte {
	text := C.sqlite3_column_text(stmt.cStmt, C.int(colIndex))
	if text == nil {
		return nil
	}
	length := C.sqlite3_column_bytes(stmt.cStmt, C.int(colIndex))
	if length <= 0 {
		return []byte{}
	}
	return C.GoBytes(unsafe.Pointer(text), length)
}

// ColumnBlob returns the column value at the given index as a byte slice.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnBlob(colIndex int) []byte {
	dataPtr := C.sqlite3_column_blob(stmt.cStmt, C.int(colIndex))
	size := C.sqlite3_column_bytes(stmt.cStmt, C.int(colIndex))
	if dataPtr == nil || size <= 0 {
		return nil
	}
	return C.GoBytes(dataPtr, size)
}

// Finalize destroys the statement. Later calls return nil.
//
// https://www.sqlite.org/c3ref/finalize.html
func (stmt *Stmt) Finalize() error {
	if stmt.cStmt == nil {
		return nil
	}

	resCode := C.sqlite3_finalize(stmt.cStmt)
	stmt.cStmt = nil
	if resCode != SQLITE_OK {
		return stmt.conn.lastError(resCode)
	}

	return nil
}

package sqlitec

/*
#include <sqlite3.h>
*/
import "C"
import "fmt"

// Result codes.
//
// https://www.sqlite.org/rescode.html
const (
	SQLITE_OK         = C.SQLITE_OK
	SQLITE_ERROR      = C.SQLITE_ERROR
	SQLITE_BUSY       = C.SQLITE_BUSY
	SQLITE_LOCKED     = C.SQLITE_LOCKED
	SQLITE_INTERRUPT  = C.SQLITE_INTERRUPT
	SQLITE_CONSTRAINT = C.SQLITE_CONSTRAINT
	SQLITE_MISMATCH   = C.SQLITE_MISMATCH
	SQLITE_MISUSE     = C.SQLITE_MISUSE
	SQLITE_RANGE      = C.SQLITE_RANGE
	SQLITE_CANTOPEN   = C.SQLITE_CANTOPEN
	SQLITE_ROW        = C.SQLITE_ROW
	SQLITE_DONE       = C.SQLITE_DONE
)

// Open flags accepted by Open.
//
// https://www.sqlite.org/c3ref/c_open_autoproxy.html
const (
	OpenReadOnly     = C.SQLITE_OPEN_READONLY
	OpenReadWrite    = C.SQLITE_OPEN_READWRITE
	OpenCreate       = C.SQLITE_OPEN_CREATE
	OpenURI          = C.SQLITE_OPEN_URI
	OpenMemory       = C.SQLITE_OPEN_MEMORY
	OpenNoMutex      = C.SQLITE_OPEN_NOMUTEX
	OpenFullMutex    = C.SQLITE_OPEN_FULLMUTEX
	OpenSharedCache  = C.SQLITE_OPEN_SHAREDCACHE
	OpenPrivateCache = C.SQLITE_OPEN_PRIVATECACHE
)

// Fundamental datatypes reported by Stmt.ColumnType.
//
// https://www.sqlite.org/c3ref/c_blob.html
const (
	TypeInteger = C.SQLITE_INTEGER
	TypeFloat   = C.SQLITE_FLOAT
	TypeText    = C.SQLITE3_TEXT
	TypeBlob    = C.SQLITE_BLOB
	TypeNull    = C.SQLITE_NULL
)

// Error is a failed SQLite call, carrying the (possibly extended) result
// code and the message reported by sqlite3_errmsg at the time of failure.
type Error struct {
	Code int
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Msg == "" {
		return getResCodeStr(e.Code)
	}
	return fmt.Sprintf("%s: %s", getResCodeStr(e.Code), e.Msg)
}

// Primary returns the primary result code, stripping the extended bits.
func (e *Error) Primary() int {
	return e.Code & 0xff
}

// getResCodeStr returns the English-language description of a result code.
//
// https://www.sqlite.org/c3ref/errcode.html
func getResCodeStr(resCode int) string {
	return C.GoString(C.sqlite3_errstr(C.int(resCode)))
}

// LibVersion returns the version string of the linked SQLite library.
//
// https://www.sqlite.org/c3ref/libversion.html
func LibVersion() string {
	return C.GoString(C.sqlite3_libversion())
}

// LibVersionNumber returns the version of the linked SQLite library as an
// integer in the X*1000000 + Y*1000 + Z form.
func LibVersionNumber() int {
	return int(C.sqlite3_libversion_number())
}

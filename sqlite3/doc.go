// Package sqlite3 connects sqlpp query trees to an SQLite database through
// the SQLite C API.
//
// A Connection serializes statements with the SQLite dialect, executes them
// directly or as prepared statements and exposes the results through
// CharResult (raw text rows) and BindResult (typed column reads).
//
// A Connection is not safe for concurrent use. Use the sqlitedrv package to
// share connections through database/sql.
package sqlite3

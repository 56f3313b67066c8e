package sqlite3

import "errors"

var (
	// ErrUnsupported is returned when a query uses a feature SQLite does not
	// provide.
	ErrUnsupported = errors.New("sqlite3: unsupported feature")
	// ErrTransactionActive is returned when starting a transaction while
	// another one is still open.
	ErrTransactionActive = errors.New("sqlite3: cannot have more than one open transaction per connection")
	// ErrNoTransaction is returned when committing or rolling back without
	// an open transaction.
	ErrNoTransaction = errors.New("sqlite3: no open transaction")
	// ErrClosed is returned when using a closed connection or statement.
	ErrClosed = errors.New("sqlite3: closed")
	// ErrParameterIndex is returned when a parameter can not be found.
	ErrParameterIndex = errors.New("sqlite3: unknown parameter")
)

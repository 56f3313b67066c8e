package sqlite3

import (
	"strings"

	"github.com/nsqlite/sqlpp3/internal/sqlitec"
	"github.com/orsinium-labs/enum"
)

// ColumnType is the storage class of a value in a result row.
type ColumnType enum.Member[string]

var (
	ColumnInteger = ColumnType{Value: "integer"}
	ColumnFloat   = ColumnType{Value: "float"}
	ColumnText    = ColumnType{Value: "text"}
	ColumnBlob    = ColumnType{Value: "blob"}
	ColumnNull    = ColumnType{Value: "null"}

	ColumnTypes = enum.New(ColumnInteger, ColumnFloat, ColumnText, ColumnBlob, ColumnNull)
)

// String returns the lower-case storage class name.
func (t ColumnType) String() string {
	return t.Value
}

// columnTypeOf maps a native fundamental datatype code.
func columnTypeOf(code int) ColumnType {
	switch code {
	case sqlitec.TypeInteger:
		return ColumnInteger
	case sqlitec.TypeFloat:
		return ColumnFloat
	case sqlitec.TypeText:
		return ColumnText
	case sqlitec.TypeBlob:
		return ColumnBlob
	}
	return ColumnNull
}

// StatementKind classifies a statement by its effect.
type StatementKind enum.Member[string]

var (
	StatementUnknown  = StatementKind{Value: "unknown"}
	StatementRead     = StatementKind{Value: "read"}
	StatementWrite    = StatementKind{Value: "write"}
	StatementBegin    = StatementKind{Value: "begin"}
	StatementCommit   = StatementKind{Value: "commit"}
	StatementRollback = StatementKind{Value: "rollback"}
)

// String returns the kind name.
func (k StatementKind) String() string {
	return k.Value
}

// TransactionMode is the locking mode a transaction starts in.
//
// https://www.sqlite.org/lang_transaction.html
type TransactionMode enum.Member[string]

var (
	TransactionDeferred  = TransactionMode{Value: "deferred"}
	TransactionImmediate = TransactionMode{Value: "immediate"}
	TransactionExclusive = TransactionMode{Value: "exclusive"}

	TransactionModes = enum.New(TransactionDeferred, TransactionImmediate, TransactionExclusive)
)

// String returns the lower-case mode name.
func (m TransactionMode) String() string {
	return m.Value
}

// beginStatement returns the BEGIN statement opening a transaction in m.
func (m TransactionMode) beginStatement() string {
	if m == TransactionDeferred {
		return "BEGIN"
	}
	return "BEGIN " + strings.ToUpper(m.Value)
}

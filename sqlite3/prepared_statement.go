package sqlite3

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nsqlite/sqlpp3/internal/log"
	"github.com/nsqlite/sqlpp3/internal/sqlitec"
	"github.com/nsqlite/sqlpp3/sqlpp"
)

// PreparedStatement is a compiled statement whose parameters can be bound
// and which can be run any number of times.
//
// Parameter indexes are 0-based and follow the placeholder order of the
// serialized statement. Bindings persist across runs until rebound.
type PreparedStatement struct {
	handle  *handle
	stmt    *sqlitec.Stmt
	id      string
	params  []sqlpp.Parameter
	closed  bool
	stepped bool
}

func newPreparedStatement(h *handle, stmt *sqlitec.Stmt, params []sqlpp.Parameter) *PreparedStatement {
	ps := &PreparedStatement{
		handle: h,
		stmt:   stmt,
		id:     uuid.NewString(),
		params: params,
	}
	h.debug(log.NsStatement, "constructing prepared statement", log.KV{
		"handle":    h.id,
		"statement": ps.id,
		"query":     stmt.SQL(),
	})
	return ps
}

// SQL returns the text of the statement.
func (ps *PreparedStatement) SQL() string {
	return ps.stmt.SQL()
}

// Parameters returns the parameters recorded while serializing the
// statement, in placeholder order.
func (ps *PreparedStatement) Parameters() []sqlpp.Parameter {
	return ps.params
}

// ParameterCount returns the number of placeholders of the statement.
func (ps *PreparedStatement) ParameterCount() int {
	return ps.stmt.BindParameterCount()
}

// ParameterIndex returns the 0-based index of the placeholder written as
// name in the SQL text, for example ":id", or -1 when there is none.
func (ps *PreparedStatement) ParameterIndex(name string) int {
	return ps.stmt.BindParameterIndex(name) - 1
}

// ReadOnly reports whether running the statement leaves the database
// unchanged.
func (ps *PreparedStatement) ReadOnly() bool {
	return ps.stmt.ReadOnly()
}

// bind binds NULL when isNull is set and calls bindFn with the native
// index otherwise.
func (ps *PreparedStatement) bind(index int, kind sqlpp.ValueType, value any, isNull bool, bindFn func(nativeIndex int) error) error {
	if ps.closed {
		return ErrClosed
	}
	ps.rewind()

	ps.handle.debug(log.NsStatement, "binding parameter", log.KV{
		"statement": ps.id,
		"type":      kind.String(),
		"index":     index,
		"value":     value,
		"null":      isNull,
	})

	var err error
	if isNull {
		err = ps.stmt.BindNull(index + 1)
	} else {
		err = bindFn(index + 1)
	}
	if err != nil {
		return fmt.Errorf("could not bind %s parameter at index %d: %w", kind, index, err)
	}
	return nil
}

// BindBoolean binds value as 1 or 0.
func (ps *PreparedStatement) BindBoolean(index int, value bool, isNull bool) error {
	return ps.bind(index, sqlpp.TypeBoolean, value, isNull, func(i int) error {
		if value {
			return ps.stmt.BindInt64(i, 1)
		}
		return ps.stmt.BindInt64(i, 0)
	})
}

// BindFloatingPoint binds a double.
func (ps *PreparedStatement) BindFloatingPoint(index int, value float64, isNull bool) error {
	return ps.bind(index, sqlpp.TypeFloatingPoint, value, isNull, func(i int) error {
		return ps.stmt.BindFloat64(i, value)
	})
}

// BindIntegral binds a signed 64-bit integer.
func (ps *PreparedStatement) BindIntegral(index int, value int64, isNull bool) error {
	return ps.bind(index, sqlpp.TypeIntegral, value, isNull, func(i int) error {
		return ps.stmt.BindInt64(i, value)
	})
}

// BindUnsignedIntegral binds value folded into a signed 64-bit integer.
// BindResult.UnsignedIntegral reverses the fold.
func (ps *PreparedStatement) BindUnsignedIntegral(index int, value uint64, isNull bool) error {
	return ps.bind(index, sqlpp.TypeUnsignedIntegral, value, isNull, func(i int) error {
		return ps.stmt.BindInt64(i, int64(value))
	})
}

// BindText binds a string.
func (ps *PreparedStatement) BindText(index int, value string, isNull bool) error {
	return ps.bind(index, sqlpp.TypeText, value, isNull, func(i int) error {
		return ps.stmt.BindText(i, value)
	})
}

// BindBlob binds a byte slice. A nil slice binds NULL.
func (ps *PreparedStatement) BindBlob(index int, value []byte, isNull bool) error {
	return ps.bind(index, sqlpp.TypeBlob, value, isNull, func(i int) error {
		return ps.stmt.BindBlob(i, value)
	})
}

// BindDayPoint binds the calendar day of value as YYYY-MM-DD text.
func (ps *PreparedStatement) BindDayPoint(index int, value time.Time, isNull bool) error {
	return ps.bind(index, sqlpp.TypeDayPoint, value, isNull, func(i int) error {
		return ps.stmt.BindText(i, value.Format(sqlpp.DayLayout))
	})
}

// BindTimePoint binds value as YYYY-MM-DD HH:MM:SS.ffffff text.
func (ps *PreparedStatement) BindTimePoint(index int, value time.Time, isNull bool) error {
	return ps.bind(index, sqlpp.TypeTimePoint, value, isNull, func(i int) error {
		return ps.stmt.BindText(i, value.Format(sqlpp.TimeLayout))
	})
}

// Bind binds a Go value at index with the matching typed bind. nil binds
// NULL. A time.Time is bound as a day point when the parameter at index
// was declared with sqlpp.TypeDayPoint, and as a time point otherwise.
func (ps *PreparedStatement) Bind(index int, value any) error {
	switch v := value.(type) {
	case nil:
		return ps.bind(index, sqlpp.TypeText, nil, true, nil)
	case bool:
		return ps.BindBoolean(index, v, false)
	case int:
		return ps.BindIntegral(index, int64(v), false)
	case int8:
		return ps.BindIntegral(index, int64(v), false)
	case int16:
		return ps.BindIntegral(index, int64(v), false)
	case int32:
		return ps.BindIntegral(index, int64(v), false)
	case int64:
		return ps.BindIntegral(index, v, false)
	case uint:
		return ps.BindUnsignedIntegral(index, uint64(v), false)
	case uint8:
		return ps.BindUnsignedIntegral(index, uint64(v), false)
	case uint16:
		return ps.BindUnsignedIntegral(index, uint64(v), false)
	case uint32:
		return ps.BindUnsignedIntegral(index, uint64(v), false)
	case uint64:
		return ps.BindUnsignedIntegral(index, v, false)
	case float32:
		return ps.BindFloatingPoint(index, float64(v), false)
	case float64:
		return ps.BindFloatingPoint(index, v, false)
	case string:
		return ps.BindText(index, v, false)
	case []byte:
		return ps.BindBlob(index, v, v == nil)
	case sqlpp.DayPoint:
		return ps.BindDayPoint(index, v.T, false)
	case sqlpp.TimePoint:
		return ps.BindTimePoint(index, v.T, false)
	case time.Time:
		if index >= 0 && index < len(ps.params) && ps.params[index].Type == sqlpp.TypeDayPoint {
			return ps.BindDayPoint(index, v, false)
		}
		return ps.BindTimePoint(index, v, false)
	}
	return fmt.Errorf("could not bind parameter at index %d: unsupported type %T", index, value)
}

// BindNamed binds value to every parameter called name.
func (ps *PreparedStatement) BindNamed(name string, value any) error {
	found := false
	for i, p := range ps.params {
		if p.Name != name {
			continue
		}
		found = true
		if err := ps.Bind(i, value); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrParameterIndex, name)
	}
	return nil
}

// ClearBindings sets every parameter back to NULL.
func (ps *PreparedStatement) ClearBindings() error {
	if ps.closed {
		return ErrClosed
	}
	ps.rewind()
	return ps.stmt.ClearBindings()
}

// reset rewinds the statement before a run, keeping the bindings.
func (ps *PreparedStatement) reset() error {
	if ps.closed {
		return ErrClosed
	}
	ps.handle.debug(log.NsStatement, "resetting prepared statement", log.KV{"statement": ps.id})
	// The error of sqlite3_reset repeats the failure of the previous run,
	// which has already been reported.
	_ = ps.stmt.Reset()
	ps.stepped = false
	return nil
}

// rewind resets the statement if it was stepped since the last reset.
// SQLite rejects bindings in that state.
func (ps *PreparedStatement) rewind() {
	if ps.stepped {
		_ = ps.stmt.Reset()
		ps.stepped = false
	}
}

// Close finalizes the statement. Calling it more than once is harmless.
func (ps *PreparedStatement) Close() error {
	if ps.closed {
		return nil
	}
	ps.closed = true
	return ps.stmt.Finalize()
}

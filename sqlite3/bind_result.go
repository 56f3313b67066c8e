package sqlite3

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nsqlite/sqlpp3/internal/log"
	"github.com/nsqlite/sqlpp3/internal/sqlitec"
	"github.com/nsqlite/sqlpp3/sqlpp"
)

// timeReadLayout accepts any number of fractional second digits, as
// written by BindTimePoint and by STRFTIME('%f').
const timeReadLayout = "2006-01-02 15:04:05.999999999"

// BindResult iterates the rows of a prepared select with typed column
// reads. Every read also reports whether the value is NULL.
//
// The statement stays owned by the PreparedStatement; closing the result
// only stops the iteration.
type BindResult struct {
	ctx    context.Context
	handle *handle
	ps     *PreparedStatement
	done   bool
}

func newBindResult(ctx context.Context, ps *PreparedStatement) *BindResult {
	ps.handle.debug(log.NsResult, "constructing bind result", log.KV{"statement": ps.id})
	return &BindResult{ctx: ctx, handle: ps.handle, ps: ps}
}

func (r *BindResult) stmt() *sqlitec.Stmt {
	return r.ps.stmt
}

// Next fetches the next row. It returns false once all rows have been read,
// and keeps returning false afterwards.
func (r *BindResult) Next() (bool, error) {
	if r.done {
		return false, nil
	}
	if r.ps.closed {
		r.done = true
		return false, ErrClosed
	}

	r.handle.debug(log.NsResult, "accessing next row", log.KV{"statement": r.ps.id})

	r.ps.stepped = true
	hasRow, err := r.handle.step(r.ctx, r.stmt())
	if err != nil {
		r.done = true
		return false, fmt.Errorf("could not get next row: %w", err)
	}
	if !hasRow {
		r.done = true
	}
	return hasRow, nil
}

// ColumnCount returns the number of columns of the result.
func (r *BindResult) ColumnCount() int {
	return r.stmt().ColumnCount()
}

// ColumnNames returns the names of the result columns.
func (r *BindResult) ColumnNames() []string {
	return columnNames(r.stmt())
}

// ColumnType returns the storage class of the value at index in the
// current row.
func (r *BindResult) ColumnType(index int) ColumnType {
	return columnTypeOf(r.stmt().ColumnType(index))
}

// ColumnDeclType returns the declared type of the column at index, empty
// for expressions.
func (r *BindResult) ColumnDeclType(index int) string {
	return r.stmt().ColumnDeclType(index)
}

func (r *BindResult) isNull(index int) bool {
	return r.stmt().ColumnType(index) == sqlitec.TypeNull
}

func (r *BindResult) debugRead(kind sqlpp.ValueType, index int) {
	r.handle.debug(log.NsResult, "binding result", log.KV{
		"statement": r.ps.id,
		"type":      kind.String(),
		"index":     index,
	})
}

// Boolean reads the value at index as a boolean. Any non zero integer is
// true.
func (r *BindResult) Boolean(index int) (value bool, isNull bool) {
	r.debugRead(sqlpp.TypeBoolean, index)
	return r.stmt().ColumnInt64(index) != 0, r.isNull(index)
}

// FloatingPoint reads the value at index as a double. Text values are
// parsed, so 'NaN', 'Inf' and '-Inf' read back as their float value.
// Text that is not a number reads as 0.
func (r *BindResult) FloatingPoint(index int) (value float64, isNull bool) {
	r.debugRead(sqlpp.TypeFloatingPoint, index)

	stmt := r.stmt()
	switch stmt.ColumnType(index) {
	case sqlitec.TypeNull:
		return 0, true
	case sqlitec.TypeText:
		v, err := strconv.ParseFloat(strings.TrimSpace(stmt.ColumnText(index)), 64)
		if err != nil {
			return 0, false
		}
		return v, false
	}
	return stmt.ColumnFloat64(index), false
}

// Integral reads the value at index as a signed 64-bit integer.
func (r *BindResult) Integral(index int) (value int64, isNull bool) {
	r.debugRead(sqlpp.TypeIntegral, index)
	return r.stmt().ColumnInt64(index), r.isNull(index)
}

// UnsignedIntegral reads the value at index as an unsigned 64-bit integer,
// reversing the fold applied when writing it.
func (r *BindResult) UnsignedIntegral(index int) (value uint64, isNull bool) {
	r.debugRead(sqlpp.TypeUnsignedIntegral, index)
	return uint64(r.stmt().ColumnInt64(index)), r.isNull(index)
}

// Text reads the value at index as a string.
func (r *BindResult) Text(index int) (value string, isNull bool) {
	r.debugRead(sqlpp.TypeText, index)
	raw := r.stmt().ColumnRawText(index)
	return string(raw), raw == nil
}

// Blob reads the value at index as a byte slice.
func (r *BindResult) Blob(index int) (value []byte, isNull bool) {
	r.debugRead(sqlpp.TypeBlob, index)
	if r.isNull(index) {
		return nil, true
	}
	value = r.stmt().ColumnBlob(index)
	if value == nil {
		value = []byte{}
	}
	return value, false
}

// DayPoint reads a YYYY-MM-DD value at index. A time of day, if present,
// is dropped.
func (r *BindResult) DayPoint(index int) (value time.Time, isNull bool, err error) {
	r.debugRead(sqlpp.TypeDayPoint, index)
	if r.isNull(index) {
		return time.Time{}, true, nil
	}

	text := r.stmt().ColumnText(index)
	if len(text) > len(sqlpp.DayLayout) {
		text = text[:len(sqlpp.DayLayout)]
	}
	value, err = time.Parse(sqlpp.DayLayout, text)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid day point at index %d: %w", index, err)
	}
	return value, false, nil
}

// TimePoint reads a YYYY-MM-DD HH:MM:SS[.fraction] value at index. A bare
// date reads as midnight.
func (r *BindResult) TimePoint(index int) (value time.Time, isNull bool, err error) {
	r.debugRead(sqlpp.TypeTimePoint, index)
	if r.isNull(index) {
		return time.Time{}, true, nil
	}

	text := r.stmt().ColumnText(index)
	layout := timeReadLayout
	if len(text) == len(sqlpp.DayLayout) {
		layout = sqlpp.DayLayout
	}
	value, err = time.Parse(layout, text)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid time point at index %d: %w", index, err)
	}
	return value, false, nil
}

// Close stops the iteration. The prepared statement stays usable.
func (r *BindResult) Close() error {
	r.done = true
	return nil
}

package sqlite3

import (
	"context"
	"fmt"

	"github.com/nsqlite/sqlpp3/internal/log"
	"github.com/nsqlite/sqlpp3/internal/sqlitec"
)

// CharResult iterates the rows of a directly executed select. Every field
// of a row is the text representation of the column value.
//
// The context given to Connection.Select stays attached to the result and
// interrupts the row currently being fetched when cancelled.
type CharResult struct {
	ctx    context.Context
	handle *handle
	stmt   *sqlitec.Stmt
	id     string
	fields [][]byte
	done   bool
}

func newCharResult(ctx context.Context, h *handle, stmt *sqlitec.Stmt, id string) *CharResult {
	h.debug(log.NsResult, "constructing char result", log.KV{"handle": h.id, "result": id})
	return &CharResult{
		ctx:    ctx,
		handle: h,
		stmt:   stmt,
		id:     id,
		fields: make([][]byte, stmt.ColumnCount()),
	}
}

// Next fetches the next row. It returns false once all rows have been read,
// and keeps returning false afterwards.
func (r *CharResult) Next() (bool, error) {
	if r.done || r.stmt == nil {
		return false, nil
	}

	r.handle.debug(log.NsResult, "accessing next row", log.KV{"handle": r.handle.id, "result": r.id})

	hasRow, err := r.handle.step(r.ctx, r.stmt)
	if err != nil {
		r.done = true
		return false, fmt.Errorf("could not get next row: %w", err)
	}
	if !hasRow {
		r.done = true
		clear(r.fields)
		return false, nil
	}

	for i := range r.fields {
		r.fields[i] = r.stmt.ColumnRawText(i)
	}
	return true, nil
}

// Row returns the fields of the current row. A nil field is SQL NULL. The
// slice is reused by the next call to Next.
func (r *CharResult) Row() [][]byte {
	return r.fields
}

// Field returns the field at index as a string and whether it is NULL.
func (r *CharResult) Field(index int) (string, bool) {
	field := r.fields[index]
	return string(field), field == nil
}

// Sizes returns the length in bytes of every field of the current row.
func (r *CharResult) Sizes() []int {
	sizes := make([]int, len(r.fields))
	for i, f := range r.fields {
		sizes[i] = len(f)
	}
	return sizes
}

// ColumnCount returns the number of columns of the result.
func (r *CharResult) ColumnCount() int {
	return len(r.fields)
}

// ColumnNames returns the names of the result columns.
func (r *CharResult) ColumnNames() []string {
	return columnNames(r.stmt)
}

// Close finalizes the statement. Calling it more than once is harmless.
func (r *CharResult) Close() error {
	if r.stmt == nil {
		return nil
	}
	err := r.stmt.Finalize()
	r.stmt = nil
	r.done = true
	return err
}

func columnNames(stmt *sqlitec.Stmt) []string {
	if stmt == nil {
		return nil
	}
	names := make([]string, stmt.ColumnCount())
	for i := range names {
		names[i] = stmt.ColumnName(i)
	}
	return names
}

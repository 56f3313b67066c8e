package sqlite3

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlpp3/internal/styled"
)

// WriteTable reads the remaining rows of res and renders them as a text
// table into w, followed by a row count footer. It returns the number of
// rows written. The result is not closed.
func WriteTable(w io.Writer, res *CharResult) (int, error) {
	tw := styled.NewTableWriter(w)

	header := table.Row{}
	for _, name := range res.ColumnNames() {
		header = append(header, name)
	}
	tw.AppendHeader(header)

	count := 0
	for {
		hasRow, err := res.Next()
		if err != nil {
			return count, err
		}
		if !hasRow {
			break
		}

		row := make(table.Row, res.ColumnCount())
		for i, field := range res.Row() {
			if field == nil {
				row[i] = styled.Null()
				continue
			}
			row[i] = string(field)
		}
		tw.AppendRow(row)
		count++
	}

	tw.AppendFooter(table.Row{styled.RowCount(count)})
	tw.Render()

	return count, nil
}

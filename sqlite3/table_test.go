package sqlite3

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/nsqlite/sqlpp3/sqlpp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTable(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	ctx := context.Background()
	conn, _ := openMemory(t, false)
	require.NoError(t, conn.Execute(ctx, createTabSample))
	_, err := conn.Insert(ctx, sqlpp.InsertInto(tabSample).Set(colBeta.Set("cheesecake"), colGamma.Set(true)))
	require.NoError(t, err)
	_, err = conn.Insert(ctx, sqlpp.InsertInto(tabSample))
	require.NoError(t, err)

	res, err := conn.Select(ctx, sqlpp.Select(colAlpha, colBeta, colGamma).From(tabSample))
	require.NoError(t, err)
	defer res.Close()

	out := &bytes.Buffer{}
	count, err := WriteTable(out, res)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	table := out.String()
	assert.Contains(t, table, "alpha")
	assert.Contains(t, table, "cheesecake")
	assert.Contains(t, table, "NULL")
	assert.Contains(t, table, "2 rows")
}

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal(line, &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger(t *testing.T) {
	t.Run("DebugDisabled", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf, false)
		assert.True(t, logger.IsInitialized())
		assert.False(t, logger.DebugEnabled())

		logger.DebugNs(NsStatement, "preparing", KV{"query": "SELECT 1"})
		logger.WarnNs(NsTransaction, "rolling back")

		entries := decodeLines(t, buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "WARN", entries[0]["level"])
		assert.Equal(t, NsTransaction, entries[0]["ns"])
	})

	t.Run("DebugEnabled", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf, true)
		assert.True(t, logger.DebugEnabled())

		logger.DebugNs(NsStatement, "preparing", KV{"query": "SELECT 1"})
		logger.Info("opened")

		entries := decodeLines(t, buf)
		require.Len(t, entries, 2)
		assert.Equal(t, "DEBUG", entries[0]["level"])
		assert.Equal(t, "preparing", entries[0]["msg"])
		assert.Equal(t, "SELECT 1", entries[0]["query"])
		assert.Equal(t, "opened", entries[1]["msg"])
	})

	t.Run("ZeroValue", func(t *testing.T) {
		logger := Logger{}
		assert.False(t, logger.IsInitialized())
		assert.False(t, logger.DebugEnabled())
		logger.ErrorNs(NsConnection, "dropped")
	})
}

package sqlite3

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/nsqlite/sqlpp3/internal/log"
	"github.com/nsqlite/sqlpp3/internal/sqlitec"
)

// handle owns the native connection. The id stands in for the native
// pointer in the logs.
type handle struct {
	id     string
	conn   *sqlitec.Conn
	config ConnectionConfig
	logger log.Logger
}

// openHandle opens the database described by config.
func openHandle(config ConnectionConfig) (*handle, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	writer := config.LogWriter
	if writer == nil {
		writer = os.Stderr
	}

	conn, err := sqlitec.Open(config.Path, config.openFlags(), config.VFS)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	h := &handle{
		id:     uuid.NewString(),
		conn:   conn,
		config: config,
		logger: log.NewLogger(writer, config.Debug),
	}
	h.logger.DebugNs(log.NsConnection, "opened database", log.KV{
		"handle": h.id,
		"path":   config.Path,
		"flags":  config.openFlags(),
		"vfs":    config.VFS,
	})

	return h, nil
}

// close closes the native connection. A failure is logged and returned,
// the handle stays open in that case.
func (h *handle) close() error {
	if err := h.conn.Close(); err != nil {
		h.logger.ErrorNs(log.NsConnection, "can't close database", log.KV{
			"handle": h.id,
			"error":  err.Error(),
		})
		return fmt.Errorf("can't close database: %w", err)
	}
	h.logger.DebugNs(log.NsConnection, "closed database", log.KV{"handle": h.id})
	return nil
}

func (h *handle) debug(namespace string, msg string, kv log.KV) {
	if !h.logger.DebugEnabled() {
		return
	}
	h.logger.DebugNs(namespace, msg, kv)
}

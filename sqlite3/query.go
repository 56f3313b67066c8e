package sqlite3

import (
	"context"
	"fmt"
	"sync"

	"github.com/nsqlite/sqlpp3/internal/log"
	"github.com/nsqlite/sqlpp3/internal/sqlitec"
)

// prepareQuery compiles query on the connection.
func (h *handle) prepareQuery(query string) (*sqlitec.Stmt, error) {
	h.debug(log.NsStatement, "preparing", log.KV{"handle": h.id, "query": query})

	stmt, err := h.conn.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("could not compile query: %w (query was >>%s<<)", err, query)
	}
	return stmt, nil
}

// executeQuery compiles query, steps it once and finalizes it.
func (h *handle) executeQuery(ctx context.Context, query string) error {
	stmt, err := h.prepareQuery(query)
	if err != nil {
		return err
	}
	defer stmt.Finalize()

	h.debug(log.NsStatement, "executing", log.KV{"handle": h.id, "query": query})

	if _, err := h.step(ctx, stmt); err != nil {
		return fmt.Errorf("could not finish query: %w (query was >>%s<<)", err, query)
	}
	return nil
}

// step advances stmt by one row. Cancelling ctx while the step runs
// interrupts it. Once the step has returned, a late cancellation no longer
// interrupts the connection, so other open statements keep running.
func (h *handle) step(ctx context.Context, stmt *sqlitec.Stmt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var mu sync.Mutex
	running := true
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		mu.Lock()
		defer mu.Unlock()
		if running {
			h.conn.Interrupt()
		}
	})

	hasRow, err := stmt.Step()

	mu.Lock()
	running = false
	mu.Unlock()

	if !stop() {
		<-fired
		if err != nil {
			return false, fmt.Errorf("%w: %w", ctx.Err(), err)
		}
	}

	return hasRow, err
}

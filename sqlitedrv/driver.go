// Package sqlitedrv provides a database/sql/driver implementation on top of
// the sqlite3 connector, registered as "sqlpp3".
//
// It is used to take advantage of the connection pooling of database/sql.
// Each pooled connection wraps one sqlite3.Connection, which can be reached
// through database/sql's Conn.Raw for sqlpp queries.
package sqlitedrv

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"

	"github.com/nsqlite/sqlpp3/sqlite3"
)

// DriverName is the name the driver is registered under.
const DriverName = "sqlpp3"

func init() {
	sql.Register(DriverName, &Driver{})
}

var (
	_ driver.Driver        = (*Driver)(nil)
	_ driver.DriverContext = (*Driver)(nil)
	_ driver.Connector     = (*Connector)(nil)
)

// Driver implements the database/sql/driver interface
type Driver struct{}

// Open creates a new connection to the SQLite database
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	connector, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector parses the dsn once for all the connections of a pool.
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return NewConnector(cfg), nil
}

type connectorOption func(*Connector)

// WithPostConnectQueries sets a slice of queries to be executed after a
// connection is established
func WithPostConnectQueries(queries []string) connectorOption {
	return func(connector *Connector) {
		connector.postConnectQueries = queries
	}
}

// WithLogWriter sets where the connections write their logs.
func WithLogWriter(w io.Writer) connectorOption {
	return func(connector *Connector) {
		connector.config.LogWriter = w
	}
}

// Connector implements the database/sql/driver.Connector interface
type Connector struct {
	config             sqlite3.ConnectionConfig
	postConnectQueries []string
}

// NewConnector creates a new connector to the SQLite database. Use it with
// sql.OpenDB.
func NewConnector(config sqlite3.ConnectionConfig, options ...connectorOption) *Connector {
	connector := &Connector{
		config: config,
	}

	for _, option := range options {
		option(connector)
	}

	return connector
}

// Connect creates a new connection to the SQLite database
func (connector *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := sqlite3.Open(connector.config)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	for _, query := range connector.postConnectQueries {
		if err := conn.Execute(ctx, query); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf(`failed to execute "%s" post-connect query: %w`, query, err)
		}
	}

	return &Conn{conn: conn}, nil
}

// Driver returns the driver
func (connector *Connector) Driver() driver.Driver {
	return &Driver{}
}

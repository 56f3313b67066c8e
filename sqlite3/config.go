package sqlite3

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/sqlpp3/internal/sqlitec"
	"github.com/nsqlite/sqlpp3/internal/version"
)

// Open flags accepted by ConnectionConfig.Flags.
//
// https://www.sqlite.org/c3ref/c_open_autoproxy.html
const (
	OpenReadOnly     = sqlitec.OpenReadOnly
	OpenReadWrite    = sqlitec.OpenReadWrite
	OpenCreate       = sqlitec.OpenCreate
	OpenURI          = sqlitec.OpenURI
	OpenMemory       = sqlitec.OpenMemory
	OpenNoMutex      = sqlitec.OpenNoMutex
	OpenFullMutex    = sqlitec.OpenFullMutex
	OpenSharedCache  = sqlitec.OpenSharedCache
	OpenPrivateCache = sqlitec.OpenPrivateCache
)

// defaultFlags is used when ConnectionConfig.Flags is zero.
const defaultFlags = OpenReadWrite | OpenCreate

// ConnectionConfig describes how to open a Connection.
type ConnectionConfig struct {
	Path  string `arg:"--path,env:SQLPP3_PATH" help:"Path or URI of the SQLite database, :memory: for an in-memory database"`
	Flags int    `arg:"--flags,env:SQLPP3_FLAGS" help:"sqlite3_open_v2 flags, 0 means read-write and create" default:"0"`
	VFS   string `arg:"--vfs,env:SQLPP3_VFS" help:"Name of the VFS module, empty for the default one"`
	Debug bool   `arg:"--debug,env:SQLPP3_DEBUG" help:"Log every statement, bind and row access" default:"false"`

	// LogWriter receives the JSON log entries, os.Stderr when nil.
	LogWriter io.Writer `arg:"-"`
}

// Version is printed by the --version flag of ParseConfig.
func (ConnectionConfig) Version() string {
	return version.String()
}

// Equal reports whether both configs open the same database the same way.
// LogWriter is not compared.
func (c ConnectionConfig) Equal(other ConnectionConfig) bool {
	return c.Path == other.Path &&
		c.Flags == other.Flags &&
		c.VFS == other.VFS &&
		c.Debug == other.Debug
}

// Validate checks that the config can be used to open a connection.
func (c ConnectionConfig) Validate() error {
	if c.Path == "" {
		return errors.New("invalid config, database path is required")
	}
	if c.Flags < 0 {
		return fmt.Errorf("invalid config, negative open flags %d", c.Flags)
	}
	return nil
}

// openFlags returns the flags passed to sqlite3_open_v2.
func (c ConnectionConfig) openFlags() int {
	if c.Flags == 0 {
		return defaultFlags
	}
	return c.Flags
}

// ParseConfig parses and validates a config from command line style
// arguments, not including the program name, and SQLPP3_* environment
// variables.
func ParseConfig(args []string) (ConnectionConfig, error) {
	cfg := ConnectionConfig{}

	parser, err := arg.NewParser(
		arg.Config{Program: "sqlpp3"},
		&cfg,
	)
	if err != nil {
		return ConnectionConfig{}, err
	}
	if err := parser.Parse(args); err != nil {
		return ConnectionConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return ConnectionConfig{}, err
	}

	return cfg, nil
}

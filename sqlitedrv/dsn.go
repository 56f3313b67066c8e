package sqlitedrv

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nsqlite/sqlpp3/sqlite3"
)

// ParseDSN converts a data source name into a connection config.
//
// A DSN is either a plain path such as "data.db" or ":memory:", or a
// "file:" URI. URIs accept the SQLite parameters plus:
//
//   - mode: ro, rw, rwc or memory, mapped to the open flags
//   - vfs: name of the VFS module
//   - debug: true to enable debug logging
//
// The debug parameter is removed before the URI is handed to SQLite.
func ParseDSN(dsn string) (sqlite3.ConnectionConfig, error) {
	if dsn == "" {
		return sqlite3.ConnectionConfig{}, fmt.Errorf("invalid dsn, empty")
	}
	if !strings.HasPrefix(dsn, "file:") {
		return sqlite3.ConnectionConfig{Path: dsn}, nil
	}

	path, rawQuery, _ := strings.Cut(dsn, "?")
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return sqlite3.ConnectionConfig{}, fmt.Errorf("invalid dsn query: %w", err)
	}

	cfg := sqlite3.ConnectionConfig{
		VFS: params.Get("vfs"),
	}

	if debug := params.Get("debug"); debug != "" {
		cfg.Debug, err = strconv.ParseBool(debug)
		if err != nil {
			return sqlite3.ConnectionConfig{}, fmt.Errorf("invalid dsn debug value %q", debug)
		}
		params.Del("debug")
	}

	switch mode := params.Get("mode"); mode {
	case "ro":
		cfg.Flags = sqlite3.OpenReadOnly
	case "rw":
		cfg.Flags = sqlite3.OpenReadWrite
	case "", "rwc":
		cfg.Flags = sqlite3.OpenReadWrite | sqlite3.OpenCreate
	case "memory":
		cfg.Flags = sqlite3.OpenReadWrite | sqlite3.OpenCreate | sqlite3.OpenMemory
	default:
		return sqlite3.ConnectionConfig{}, fmt.Errorf("invalid dsn mode %q, valid values are ro, rw, rwc, memory", mode)
	}
	cfg.Flags |= sqlite3.OpenURI

	cfg.Path = path
	if len(params) > 0 {
		cfg.Path += "?" + params.Encode()
	}

	return cfg, nil
}

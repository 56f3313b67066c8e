// Package version holds the release of the connector.
package version

import (
	"fmt"

	"github.com/nsqlite/sqlpp3/internal/sqlitec"
)

const Version = "v0.1.0"

// String returns the connector release together with the linked SQLite
// library version.
func String() string {
	return fmt.Sprintf("sqlpp3 %s (sqlite %s)", Version, sqlitec.LibVersion())
}

package sqlite3

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nsqlite/sqlpp3/internal/sqlitec"
	"github.com/nsqlite/sqlpp3/sqlpp"
)

// minWithVersion is the first SQLite release supporting common table
// expressions (3.8.3).
const minWithVersion = 3008003

// Serializer is the SQLite dialect of sqlpp.Context.
//
// Parameters are written as numbered ?N placeholders and recorded in order
// so that a prepared statement can bind them by name.
type Serializer struct {
	sb         strings.Builder
	count      int
	params     []sqlpp.Parameter
	libVersion int
}

// NewSerializer returns an empty serializer for the linked SQLite library.
func NewSerializer() *Serializer {
	return newSerializer(sqlitec.LibVersionNumber())
}

func newSerializer(libVersion int) *Serializer {
	return &Serializer{count: 1, libVersion: libVersion}
}

// Write appends parts to the SQL text.
func (s *Serializer) Write(parts ...string) {
	for _, p := range parts {
		s.sb.WriteString(p)
	}
}

// Escape doubles single quotes. It does not add surrounding quotes.
func (s *Serializer) Escape(str string) string {
	return escape(str)
}

// Count returns the number of the next ?N placeholder.
func (s *Serializer) Count() int {
	return s.count
}

// PopCount moves on to the next placeholder number.
func (s *Serializer) PopCount() {
	s.count++
}

// String returns the SQL written so far.
func (s *Serializer) String() string {
	return s.sb.String()
}

// Parameters returns the parameters in placeholder order.
func (s *Serializer) Parameters() []sqlpp.Parameter {
	return s.params
}

// Serialize writes node with the SQLite rules, falling back to the
// neutral serialization of the node.
func (s *Serializer) Serialize(node sqlpp.Node) error {
	switch n := node.(type) {
	case sqlpp.Parameter:
		s.Write("?", strconv.Itoa(s.count))
		s.params = append(s.params, n)
		s.PopCount()
		return nil

	case sqlpp.Any, sqlpp.Some:
		return fmt.Errorf("%w: no support for any() or some()", ErrUnsupported)

	case sqlpp.Join:
		switch n.Type {
		case sqlpp.JoinOuter:
			return fmt.Errorf("%w: no support for outer join", ErrUnsupported)
		case sqlpp.JoinRightOuter:
			return fmt.Errorf("%w: no support for right outer join", ErrUnsupported)
		}

	case sqlpp.With:
		if s.libVersion < minWithVersion {
			return fmt.Errorf(
				"%w: with clause requires sqlite 3.8.3 or newer, linked version is %d",
				ErrUnsupported, s.libVersion,
			)
		}

	case sqlpp.TimePoint:
		s.Write("STRFTIME('%Y-%m-%d %H:%M:%f', '", n.T.Format(sqlpp.TimeLayout), "')")
		return nil

	case sqlpp.DayPoint:
		s.Write("DATE('", n.T.Format(sqlpp.DayLayout), "')")
		return nil

	case sqlpp.FloatingPoint:
		s.Write(formatFloat(float64(n)))
		return nil

	case sqlpp.UnsignedIntegral:
		s.Write(strconv.FormatInt(int64(n), 10))
		return nil
	}

	return node.SerializeTo(s)
}

// formatFloat writes v so that it reads back as the same value. SQLite has
// no literal for NaN or infinity, they are written as text.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "'NaN'"
	case math.IsInf(v, 1):
		return "'Inf'"
	case math.IsInf(v, -1):
		return "'-Inf'"
	}

	str := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(str, ".e") {
		str += ".0"
	}
	return str
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

package sqlpp

import (
	"strconv"
	"strings"
)

// Node is an element of a query tree.
type Node interface {
	// SerializeTo writes the dialect-neutral SQL for the node.
	SerializeTo(ctx Context) error
}

// Context accumulates serialized SQL.
type Context interface {
	// Write appends raw SQL tokens.
	Write(parts ...string)
	// Serialize writes the given node, applying any dialect specific rule.
	Serialize(node Node) error
	// Escape escapes a string literal without quoting it.
	Escape(s string) string
	// Count returns the number of the next parameter placeholder.
	Count() int
	// PopCount advances the parameter placeholder counter.
	PopCount()
}

// ValueType identifies the value type carried by a parameter.
type ValueType int

const (
	TypeBoolean ValueType = iota
	TypeIntegral
	TypeUnsignedIntegral
	TypeFloatingPoint
	TypeText
	TypeBlob
	TypeDayPoint
	TypeTimePoint
)

var valueTypeNames = [...]string{
	"boolean", "integral", "unsigned_integral", "floating_point",
	"text", "blob", "day_point", "time_point",
}

// String returns the name of the value type.
func (t ValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return "ValueType(" + strconv.Itoa(int(t)) + ")"
	}
	return valueTypeNames[t]
}

// StringContext is the dialect-neutral Context. Parameters are written as
// plain "?" placeholders.
type StringContext struct {
	sb    strings.Builder
	count int
}

// NewContext returns an empty dialect-neutral context.
func NewContext() *StringContext {
	return &StringContext{count: 1}
}

// Write appends parts to the SQL text.
func (c *StringContext) Write(parts ...string) {
	for _, p := range parts {
		c.sb.WriteString(p)
	}
}

// Serialize writes node with its neutral serialization.
func (c *StringContext) Serialize(node Node) error {
	return node.SerializeTo(c)
}

// Escape doubles single quotes.
func (c *StringContext) Escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Count returns the number of the next placeholder.
func (c *StringContext) Count() int {
	return c.count
}

// PopCount moves on to the next placeholder number.
func (c *StringContext) PopCount() {
	c.count++
}

// String returns the SQL written so far.
func (c *StringContext) String() string {
	return c.sb.String()
}

// ToSQL serializes node with a dialect-neutral context.
func ToSQL(node Node) (string, error) {
	ctx := NewContext()
	if err := ctx.Serialize(node); err != nil {
		return "", err
	}
	return ctx.String(), nil
}

// serializeList writes nodes separated by sep.
func serializeList(ctx Context, sep string, nodes []Node) error {
	for i, n := range nodes {
		if i > 0 {
			ctx.Write(sep)
		}
		if err := ctx.Serialize(n); err != nil {
			return err
		}
	}
	return nil
}

package sqlpp

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts used for date and time literals.
const (
	DayLayout  = "2006-01-02"
	TimeLayout = "2006-01-02 15:04:05.000000"
)

// Integral is a signed integer literal.
type Integral int64

func (v Integral) SerializeTo(ctx Context) error {
	ctx.Write(strconv.FormatInt(int64(v), 10))
	return nil
}

// UnsignedIntegral is an unsigned integer literal.
type UnsignedIntegral uint64

func (v UnsignedIntegral) SerializeTo(ctx Context) error {
	ctx.Write(strconv.FormatUint(uint64(v), 10))
	return nil
}

// FloatingPoint is a floating point literal.
type FloatingPoint float64

func (v FloatingPoint) SerializeTo(ctx Context) error {
	ctx.Write(strconv.FormatFloat(float64(v), 'g', -1, 64))
	return nil
}

// Text is a string literal.
type Text string

func (v Text) SerializeTo(ctx Context) error {
	ctx.Write("'", ctx.Escape(string(v)), "'")
	return nil
}

// Boolean is a boolean literal, written as 1 or 0.
type Boolean bool

func (v Boolean) SerializeTo(ctx Context) error {
	if v {
		ctx.Write("1")
	} else {
		ctx.Write("0")
	}
	return nil
}

// Blob is a binary literal, written in hexadecimal form.
type Blob []byte

func (v Blob) SerializeTo(ctx Context) error {
	ctx.Write("X'", strings.ToUpper(hex.EncodeToString(v)), "'")
	return nil
}

// DayPoint is a date literal. Only the calendar day of T is used.
type DayPoint struct {
	T time.Time
}

func (v DayPoint) SerializeTo(ctx Context) error {
	ctx.Write("'", v.T.Format(DayLayout), "'")
	return nil
}

// TimePoint is a timestamp literal with microsecond precision.
type TimePoint struct {
	T time.Time
}

func (v TimePoint) SerializeTo(ctx Context) error {
	ctx.Write("'", v.T.Format(TimeLayout), "'")
	return nil
}

// Null is the SQL NULL literal.
type Null struct{}

func (Null) SerializeTo(ctx Context) error {
	ctx.Write("NULL")
	return nil
}

// Value wraps a Go value into the matching literal node. Nodes are
// returned unchanged and nil becomes Null. time.Time values become
// TimePoint; wrap them in DayPoint explicitly for dates.
func Value(v any) Node {
	switch v := v.(type) {
	case nil:
		return Null{}
	case Node:
		return v
	case bool:
		return Boolean(v)
	case int:
		return Integral(v)
	case int8:
		return Integral(v)
	case int16:
		return Integral(v)
	case int32:
		return Integral(v)
	case int64:
		return Integral(v)
	case uint:
		return UnsignedIntegral(v)
	case uint8:
		return UnsignedIntegral(v)
	case uint16:
		return UnsignedIntegral(v)
	case uint32:
		return UnsignedIntegral(v)
	case uint64:
		return UnsignedIntegral(v)
	case float32:
		return FloatingPoint(v)
	case float64:
		return FloatingPoint(v)
	case string:
		return Text(v)
	case []byte:
		return Blob(v)
	case time.Time:
		return TimePoint{T: v}
	}
	return invalidValue{v: v}
}

// invalidValue defers the conversion failure of Value to serialization.
type invalidValue struct {
	v any
}

func (v invalidValue) SerializeTo(Context) error {
	return fmt.Errorf("sqlpp: unsupported value type %T", v.v)
}

// Parameter is a placeholder whose value is bound at execution time.
type Parameter struct {
	Name string
	Type ValueType
}

// Param returns a named parameter of the given type.
func Param(name string, typ ValueType) Parameter {
	return Parameter{Name: name, Type: typ}
}

func (Parameter) SerializeTo(ctx Context) error {
	ctx.Write("?")
	return nil
}

// Verbatim is raw SQL written as is.
type Verbatim string

func (v Verbatim) SerializeTo(ctx Context) error {
	ctx.Write(string(v))
	return nil
}

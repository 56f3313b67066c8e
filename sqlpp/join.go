package sqlpp

// JoinType selects the kind of join.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeftOuter
	JoinRightOuter
	JoinOuter
	JoinCross
)

var joinKeywords = map[JoinType]string{
	JoinInner:      " INNER JOIN ",
	JoinLeftOuter:  " LEFT OUTER JOIN ",
	JoinRightOuter: " RIGHT OUTER JOIN ",
	JoinOuter:      " FULL OUTER JOIN ",
	JoinCross:      " CROSS JOIN ",
}

// Join combines two table expressions.
type Join struct {
	Type JoinType
	Lhs  Node
	Rhs  Node
	Cond Node
}

// Inner returns lhs INNER JOIN rhs.
func Inner(lhs, rhs Node) Join { return Join{Type: JoinInner, Lhs: lhs, Rhs: rhs} }

// LeftOuter returns lhs LEFT OUTER JOIN rhs.
func LeftOuter(lhs, rhs Node) Join { return Join{Type: JoinLeftOuter, Lhs: lhs, Rhs: rhs} }

// RightOuter returns lhs RIGHT OUTER JOIN rhs.
func RightOuter(lhs, rhs Node) Join { return Join{Type: JoinRightOuter, Lhs: lhs, Rhs: rhs} }

// Outer returns lhs FULL OUTER JOIN rhs.
func Outer(lhs, rhs Node) Join { return Join{Type: JoinOuter, Lhs: lhs, Rhs: rhs} }

// Cross returns lhs CROSS JOIN rhs.
func Cross(lhs, rhs Node) Join { return Join{Type: JoinCross, Lhs: lhs, Rhs: rhs} }

// On returns the join with the given join condition.
func (j Join) On(cond Node) Join {
	j.Cond = cond
	return j
}

func (j Join) SerializeTo(ctx Context) error {
	if err := ctx.Serialize(j.Lhs); err != nil {
		return err
	}
	ctx.Write(joinKeywords[j.Type])
	if err := ctx.Serialize(j.Rhs); err != nil {
		return err
	}
	if j.Cond != nil {
		ctx.Write(" ON ")
		if err := ctx.Serialize(j.Cond); err != nil {
			return err
		}
	}
	return nil
}

// CTE is a named common table expression.
type CTE struct {
	Name  string
	Query Node
}

// With prefixes a statement with common table expressions.
type With struct {
	Recursive bool
	CTEs      []CTE
	Statement Node
}

func (w With) SerializeTo(ctx Context) error {
	ctx.Write("WITH ")
	if w.Recursive {
		ctx.Write("RECURSIVE ")
	}
	for i, cte := range w.CTEs {
		if i > 0 {
			ctx.Write(", ")
		}
		ctx.Write(cte.Name, " AS (")
		if err := ctx.Serialize(cte.Query); err != nil {
			return err
		}
		ctx.Write(")")
	}
	ctx.Write(" ")
	return ctx.Serialize(w.Statement)
}

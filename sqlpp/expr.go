package sqlpp

// Table is a table reference, optionally aliased.
type Table struct {
	Name  string
	Alias string
}

// T returns a reference to the named table.
func T(name string) Table {
	return Table{Name: name}
}

// As returns the table aliased as alias.
func (t Table) As(alias string) Table {
	t.Alias = alias
	return t
}

// C returns a column of the table, qualified by its alias if any.
func (t Table) C(name string) Column {
	table := t.Name
	if t.Alias != "" {
		table = t.Alias
	}
	return Column{Table: table, Name: name}
}

func (t Table) SerializeTo(ctx Context) error {
	ctx.Write(t.Name)
	if t.Alias != "" {
		ctx.Write(" AS ", t.Alias)
	}
	return nil
}

// Column is a column reference. Table may be empty.
type Column struct {
	Table string
	Name  string
}

func (c Column) SerializeTo(ctx Context) error {
	if c.Table != "" {
		ctx.Write(c.Table, ".")
	}
	ctx.Write(c.Name)
	return nil
}

// Set returns the assignment of value to the column, for use in insert and
// update statements.
func (c Column) Set(value any) Assignment {
	return Assignment{Column: c, Value: Value(value)}
}

// Binary is an infix operation, always written in parentheses.
type Binary struct {
	Lhs Node
	Op  string
	Rhs Node
}

func (b Binary) SerializeTo(ctx Context) error {
	ctx.Write("(")
	if err := ctx.Serialize(b.Lhs); err != nil {
		return err
	}
	ctx.Write(" ", b.Op, " ")
	if err := ctx.Serialize(b.Rhs); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

func binary(lhs Node, op string, rhs any) Binary {
	return Binary{Lhs: lhs, Op: op, Rhs: Value(rhs)}
}

// Eq returns lhs = rhs. Non-node operands are wrapped with Value.
func Eq(lhs Node, rhs any) Binary { return binary(lhs, "=", rhs) }

// Neq returns lhs <> rhs.
func Neq(lhs Node, rhs any) Binary { return binary(lhs, "<>", rhs) }

// Lt returns lhs < rhs.
func Lt(lhs Node, rhs any) Binary { return binary(lhs, "<", rhs) }

// Le returns lhs <= rhs.
func Le(lhs Node, rhs any) Binary { return binary(lhs, "<=", rhs) }

// Gt returns lhs > rhs.
func Gt(lhs Node, rhs any) Binary { return binary(lhs, ">", rhs) }

// Ge returns lhs >= rhs.
func Ge(lhs Node, rhs any) Binary { return binary(lhs, ">=", rhs) }

// Plus returns lhs + rhs.
func Plus(lhs Node, rhs any) Binary { return binary(lhs, "+", rhs) }

// Like returns lhs LIKE rhs.
func Like(lhs Node, rhs any) Binary { return binary(lhs, "LIKE", rhs) }

// And joins the conditions with AND.
func And(first Node, rest ...Node) Node {
	node := first
	for _, r := range rest {
		node = Binary{Lhs: node, Op: "AND", Rhs: r}
	}
	return node
}

// Or joins the conditions with OR.
func Or(first Node, rest ...Node) Node {
	node := first
	for _, r := range rest {
		node = Binary{Lhs: node, Op: "OR", Rhs: r}
	}
	return node
}

// Not negates a condition.
type Not struct {
	Expr Node
}

func (n Not) SerializeTo(ctx Context) error {
	ctx.Write("(NOT ")
	if err := ctx.Serialize(n.Expr); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

// IsNull tests an expression for NULL.
type IsNull struct {
	Expr Node
	Not  bool
}

func (n IsNull) SerializeTo(ctx Context) error {
	ctx.Write("(")
	if err := ctx.Serialize(n.Expr); err != nil {
		return err
	}
	if n.Not {
		ctx.Write(" IS NOT NULL)")
	} else {
		ctx.Write(" IS NULL)")
	}
	return nil
}

// In tests membership of Expr in Values or in a subquery.
type In struct {
	Expr   Node
	Values []Node
	Not    bool
}

// InValues returns expr IN (values...).
func InValues(expr Node, values ...any) In {
	nodes := make([]Node, len(values))
	for i, v := range values {
		nodes[i] = Value(v)
	}
	return In{Expr: expr, Values: nodes}
}

func (n In) SerializeTo(ctx Context) error {
	ctx.Write("(")
	if err := ctx.Serialize(n.Expr); err != nil {
		return err
	}
	if n.Not {
		ctx.Write(" NOT")
	}
	ctx.Write(" IN (")
	if err := serializeList(ctx, ", ", n.Values); err != nil {
		return err
	}
	ctx.Write("))")
	return nil
}

// Func is a function call such as MAX(x).
type Func struct {
	Name string
	Args []Node
}

// Max returns MAX(expr).
func Max(expr Node) Func { return Func{Name: "MAX", Args: []Node{expr}} }

// Count returns COUNT(expr).
func Count(expr Node) Func { return Func{Name: "COUNT", Args: []Node{expr}} }

func (f Func) SerializeTo(ctx Context) error {
	ctx.Write(f.Name, "(")
	if err := serializeList(ctx, ", ", f.Args); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

// As is an expression with a result column alias.
type As struct {
	Expr  Node
	Alias string
}

func (a As) SerializeTo(ctx Context) error {
	if err := ctx.Serialize(a.Expr); err != nil {
		return err
	}
	ctx.Write(" AS ", a.Alias)
	return nil
}

// Assignment sets a column to a value in insert and update statements.
type Assignment struct {
	Column Column
	Value  Node
}

func (a Assignment) SerializeTo(ctx Context) error {
	ctx.Write(a.Column.Name, " = ")
	return ctx.Serialize(a.Value)
}

// Any is the ANY(subquery) quantifier.
type Any struct {
	Select *SelectStatement
}

func (a Any) SerializeTo(ctx Context) error {
	ctx.Write("ANY(")
	if err := ctx.Serialize(a.Select); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

// Some is the SOME(subquery) quantifier.
type Some struct {
	Select *SelectStatement
}

func (s Some) SerializeTo(ctx Context) error {
	ctx.Write("SOME(")
	if err := ctx.Serialize(s.Select); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

// Subquery is a select used as an expression, written in parentheses.
type Subquery struct {
	Select *SelectStatement
}

func (s Subquery) SerializeTo(ctx Context) error {
	ctx.Write("(")
	if err := ctx.Serialize(s.Select); err != nil {
		return err
	}
	ctx.Write(")")
	return nil
}

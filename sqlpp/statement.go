package sqlpp

import "errors"

// ErrNoAssignments is returned when serializing an update without any
// assignment.
var ErrNoAssignments = errors.New("sqlpp: update requires at least one assignment")

// Order is an ORDER BY term.
type Order struct {
	Expr Node
	Desc bool
}

// Asc orders by expr ascending.
func Asc(expr Node) Order { return Order{Expr: expr} }

// Desc orders by expr descending.
func Desc(expr Node) Order { return Order{Expr: expr, Desc: true} }

func (o Order) SerializeTo(ctx Context) error {
	if err := ctx.Serialize(o.Expr); err != nil {
		return err
	}
	if o.Desc {
		ctx.Write(" DESC")
	} else {
		ctx.Write(" ASC")
	}
	return nil
}

// SelectStatement is a SELECT query.
type SelectStatement struct {
	distinct bool
	columns  []Node
	from     Node
	where    Node
	groupBy  []Node
	having   Node
	orderBy  []Node
	limit    Node
	offset   Node
}

// Select starts a SELECT of the given result columns.
func Select(columns ...Node) *SelectStatement {
	return &SelectStatement{columns: columns}
}

// Distinct makes the select return distinct rows.
func (s *SelectStatement) Distinct() *SelectStatement {
	s.distinct = true
	return s
}

// From sets the table expression.
func (s *SelectStatement) From(table Node) *SelectStatement {
	s.from = table
	return s
}

// Where sets the filter condition. Without it the select is unconditional.
func (s *SelectStatement) Where(cond Node) *SelectStatement {
	s.where = cond
	return s
}

// GroupBy sets the grouping expressions.
func (s *SelectStatement) GroupBy(exprs ...Node) *SelectStatement {
	s.groupBy = exprs
	return s
}

// Having sets the group filter condition.
func (s *SelectStatement) Having(cond Node) *SelectStatement {
	s.having = cond
	return s
}

// OrderBy sets the ordering terms.
func (s *SelectStatement) OrderBy(terms ...Order) *SelectStatement {
	s.orderBy = make([]Node, len(terms))
	for i, t := range terms {
		s.orderBy[i] = t
	}
	return s
}

// Limit sets the maximum number of rows. n may be a value or a node such
// as a Parameter.
func (s *SelectStatement) Limit(n any) *SelectStatement {
	s.limit = Value(n)
	return s
}

// Offset sets the number of rows to skip.
func (s *SelectStatement) Offset(n any) *SelectStatement {
	s.offset = Value(n)
	return s
}

func (s *SelectStatement) SerializeTo(ctx Context) error {
	ctx.Write("SELECT ")
	if s.distinct {
		ctx.Write("DISTINCT ")
	}
	if err := serializeList(ctx, ", ", s.columns); err != nil {
		return err
	}
	if s.from != nil {
		ctx.Write(" FROM ")
		if err := ctx.Serialize(s.from); err != nil {
			return err
		}
	}
	if err := serializeClause(ctx, " WHERE ", s.where); err != nil {
		return err
	}
	if len(s.groupBy) > 0 {
		ctx.Write(" GROUP BY ")
		if err := serializeList(ctx, ", ", s.groupBy); err != nil {
			return err
		}
	}
	if err := serializeClause(ctx, " HAVING ", s.having); err != nil {
		return err
	}
	if len(s.orderBy) > 0 {
		ctx.Write(" ORDER BY ")
		if err := serializeList(ctx, ", ", s.orderBy); err != nil {
			return err
		}
	}
	if err := serializeClause(ctx, " LIMIT ", s.limit); err != nil {
		return err
	}
	return serializeClause(ctx, " OFFSET ", s.offset)
}

// InsertStatement is an INSERT INTO query.
type InsertStatement struct {
	table       Table
	assignments []Assignment
}

// InsertInto starts an insert into table. Without assignments the row is
// inserted with default values.
func InsertInto(table Table) *InsertStatement {
	return &InsertStatement{table: table}
}

// Set adds column assignments.
func (s *InsertStatement) Set(assignments ...Assignment) *InsertStatement {
	s.assignments = append(s.assignments, assignments...)
	return s
}

func (s *InsertStatement) SerializeTo(ctx Context) error {
	ctx.Write("INSERT INTO ", s.table.Name)
	if len(s.assignments) == 0 {
		ctx.Write(" DEFAULT VALUES")
		return nil
	}

	ctx.Write(" (")
	for i, a := range s.assignments {
		if i > 0 {
			ctx.Write(", ")
		}
		ctx.Write(a.Column.Name)
	}
	ctx.Write(") VALUES (")
	for i, a := range s.assignments {
		if i > 0 {
			ctx.Write(", ")
		}
		if err := ctx.Serialize(a.Value); err != nil {
			return err
		}
	}
	ctx.Write(")")
	return nil
}

// UpdateStatement is an UPDATE query.
type UpdateStatement struct {
	table       Table
	assignments []Node
	where       Node
}

// Update starts an update of table.
func Update(table Table) *UpdateStatement {
	return &UpdateStatement{table: table}
}

// Set adds column assignments.
func (s *UpdateStatement) Set(assignments ...Assignment) *UpdateStatement {
	for _, a := range assignments {
		s.assignments = append(s.assignments, a)
	}
	return s
}

// Where sets the filter condition. Without it every row is updated.
func (s *UpdateStatement) Where(cond Node) *UpdateStatement {
	s.where = cond
	return s
}

func (s *UpdateStatement) SerializeTo(ctx Context) error {
	if len(s.assignments) == 0 {
		return ErrNoAssignments
	}
	ctx.Write("UPDATE ", s.table.Name, " SET ")
	if err := serializeList(ctx, ", ", s.assignments); err != nil {
		return err
	}
	return serializeClause(ctx, " WHERE ", s.where)
}

// RemoveStatement is a DELETE FROM query.
type RemoveStatement struct {
	table Table
	where Node
}

// RemoveFrom starts a delete from table.
func RemoveFrom(table Table) *RemoveStatement {
	return &RemoveStatement{table: table}
}

// Where sets the filter condition. Without it every row is removed.
func (s *RemoveStatement) Where(cond Node) *RemoveStatement {
	s.where = cond
	return s
}

func (s *RemoveStatement) SerializeTo(ctx Context) error {
	ctx.Write("DELETE FROM ", s.table.Name)
	return serializeClause(ctx, " WHERE ", s.where)
}

// serializeClause writes keyword followed by node, or nothing when node is
// nil.
func serializeClause(ctx Context, keyword string, node Node) error {
	if node == nil {
		return nil
	}
	ctx.Write(keyword)
	return ctx.Serialize(node)
}

package sql

import (
	"strconv"
	"strings"

	"github.com/strataorm/strata/dialect"
)

// Querier wraps the Query method of all statement builders. It returns
// the statement text and the list of bound arguments.
type Querier interface {
	Query() (string, []any)
}

// Builder is the base struct shared by all statement builders. It holds
// the dialect, the statement buffer, and the bound arguments.
type Builder struct {
	sb      strings.Builder
	dialect string
	args    []any
	total   int // total placeholders so far, for postgres numbering
}

// Dialect returns the configured dialect name.
func (b *Builder) Dialect() string { return b.dialect }

// SetDialect sets the builder dialect. It is used for garnering
// dialect-specific placeholders and identifier quoting.
func (b *Builder) SetDialect(dialect string) { b.dialect = dialect }

// Quote quotes the given identifier with the dialect's quote character.
func (b *Builder) Quote(ident string) string {
	quote := "`"
	if b.postgres() {
		quote = `"`
	}
	return quote + ident + quote
}

// Ident writes the given identifier to the statement, quoting each
// dot-separated part. Already-quoted identifiers and "*" pass through.
func (b *Builder) Ident(s string) *Builder {
	switch {
	case s == "*" || strings.ContainsAny(s, "`\"(") || s == "":
		b.WriteString(s)
	case strings.Contains(s, "."):
		parts := strings.Split(s, ".")
		for i, p := range parts {
			if i > 0 {
				b.WriteByte('.')
			}
			if p == "*" {
				b.WriteString(p)
			} else {
				b.WriteString(b.Quote(p))
			}
		}
	default:
		b.WriteString(b.Quote(s))
	}
	return b
}

// Arg appends the given value as a statement argument and writes the
// matching placeholder.
func (b *Builder) Arg(v any) *Builder {
	b.total++
	b.args = append(b.args, v)
	if b.postgres() {
		b.WriteString("$" + strconv.Itoa(b.total))
	} else {
		b.WriteByte('?')
	}
	return b
}

// Args appends a list of arguments separated by commas.
func (b *Builder) Args(vs ...any) *Builder {
	for i, v := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Arg(v)
	}
	return b
}

// WriteString writes the given string to the statement buffer.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// WriteByte writes the given byte to the statement buffer.
func (b *Builder) WriteByte(c byte) *Builder {
	b.sb.WriteByte(c)
	return b
}

func (b *Builder) postgres() bool {
	return b.dialect == dialect.Postgres
}

// String returns the accumulated statement text.
func (b *Builder) String() string { return b.sb.String() }

// DialectBuilder prefixes all root builders with the given dialect.
type DialectBuilder struct {
	dialect string
}

// Dialect creates a new DialectBuilder for the given dialect.
func Dialect(name string) *DialectBuilder {
	return &DialectBuilder{dialect: name}
}

// Select creates a Selector for the given columns.
func (d *DialectBuilder) Select(columns ...string) *Selector {
	s := Select(columns...)
	s.SetDialect(d.dialect)
	return s
}

// Insert creates an InsertBuilder for the given table.
func (d *DialectBuilder) Insert(table string) *InsertBuilder {
	i := Insert(table)
	i.SetDialect(d.dialect)
	return i
}

// Update creates an UpdateBuilder for the given table.
func (d *DialectBuilder) Update(table string) *UpdateBuilder {
	u := Update(table)
	u.SetDialect(d.dialect)
	return u
}

// Delete creates a DeleteBuilder for the given table.
func (d *DialectBuilder) Delete(table string) *DeleteBuilder {
	dl := Delete(table)
	dl.SetDialect(d.dialect)
	return dl
}

// Predicate is a where-clause predicate. Predicates are composed with
// And, Or and Not, and rendered into the owning statement on Query.
type Predicate struct {
	fns []func(*Builder)
}

// P creates a new predicate.
func P(fns ...func(*Builder)) *Predicate {
	return &Predicate{fns: fns}
}

func (p *Predicate) append(fn func(*Builder)) *Predicate {
	p.fns = append(p.fns, fn)
	return p
}

// build renders the predicate into the given builder.
func (p *Predicate) build(b *Builder) {
	for _, fn := range p.fns {
		fn(b)
	}
}

// And appends the given predicate with an AND connective.
func (p *Predicate) And(other *Predicate) *Predicate {
	return p.append(func(b *Builder) {
		b.WriteString(" AND ")
		other.build(b)
	})
}

// Or appends the given predicate with an OR connective.
func (p *Predicate) Or(other *Predicate) *Predicate {
	return p.append(func(b *Builder) {
		b.WriteString(" OR ")
		other.build(b)
	})
}

// And joins the given predicates with the AND connective, wrapping each
// operand in parens when more than one was given.
func And(preds ...*Predicate) *Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	p := P()
	return p.append(func(b *Builder) {
		for i, pred := range preds {
			if i > 0 {
				b.WriteString(" AND ")
			}
			b.WriteByte('(')
			pred.build(b)
			b.WriteByte(')')
		}
	})
}

// Or joins the given predicates with the OR connective.
func Or(preds ...*Predicate) *Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	p := P()
	return p.append(func(b *Builder) {
		for i, pred := range preds {
			if i > 0 {
				b.WriteString(" OR ")
			}
			b.WriteByte('(')
			pred.build(b)
			b.WriteByte(')')
		}
	})
}

// Not wraps the given predicate with the NOT operator.
func Not(pred *Predicate) *Predicate {
	p := P()
	return p.append(func(b *Builder) {
		b.WriteString("NOT (")
		pred.build(b)
		b.WriteByte(')')
	})
}

func binary(col, op string, v any) *Predicate {
	p := P()
	return p.append(func(b *Builder) {
		b.Ident(col).WriteString(" " + op + " ")
		b.Arg(v)
	})
}

// EQ returns a column = value predicate.
func EQ(col string, v any) *Predicate { return binary(col, "=", v) }

// NEQ returns a column <> value predicate.
func NEQ(col string, v any) *Predicate { return binary(col, "<>", v) }

// GT returns a column > value predicate.
func GT(col string, v any) *Predicate { return binary(col, ">", v) }

// GTE returns a column >= value predicate.
func GTE(col string, v any) *Predicate { return binary(col, ">=", v) }

// LT returns a column < value predicate.
func LT(col string, v any) *Predicate { return binary(col, "<", v) }

// LTE returns a column <= value predicate.
func LTE(col string, v any) *Predicate { return binary(col, "<=", v) }

// Like returns a column LIKE pattern predicate.
func Like(col, pattern string) *Predicate { return binary(col, "LIKE", pattern) }

// In returns a column IN (values...) predicate. An empty value list
// renders the always-false FALSE condition.
func In(col string, vs ...any) *Predicate {
	p := P()
	return p.append(func(b *Builder) {
		if len(vs) == 0 {
			b.WriteString("FALSE")
			return
		}
		b.Ident(col).WriteString(" IN (")
		b.Args(vs...)
		b.WriteByte(')')
	})
}

// NotIn returns a column NOT IN (values...) predicate.
func NotIn(col string, vs ...any) *Predicate {
	p := P()
	return p.append(func(b *Builder) {
		if len(vs) == 0 {
			b.WriteString("TRUE")
			return
		}
		b.Ident(col).WriteString(" NOT IN (")
		b.Args(vs...)
		b.WriteByte(')')
	})
}

// IsNull returns a column IS NULL predicate.
func IsNull(col string) *Predicate {
	p := P()
	return p.append(func(b *Builder) {
		b.Ident(col).WriteString(" IS NULL")
	})
}

// NotNull returns a column IS NOT NULL predicate.
func NotNull(col string) *Predicate {
	p := P()
	return p.append(func(b *Builder) {
		b.Ident(col).WriteString(" IS NOT NULL")
	})
}

// ColumnsEQ returns a column = column predicate for join conditions.
// Both sides are identifiers, not arguments.
func ColumnsEQ(col1, col2 string) *Predicate {
	p := P()
	return p.append(func(b *Builder) {
		b.Ident(col1).WriteString(" = ").Ident(col2)
	})
}

// Selector builds a SELECT statement.
type Selector struct {
	Builder
	table    string
	columns  []string
	joins    []join
	where    *Predicate
	orderBy  []string
	limit    *int
	offset   *int
	distinct bool
}

type join struct {
	kind  string
	table string
	on    *Predicate
}

// Select returns a new Selector for the given columns.
func Select(columns ...string) *Selector {
	return &Selector{columns: columns}
}

// From sets the source table of the selection.
func (s *Selector) From(table string) *Selector {
	s.table = table
	return s
}

// Table returns the source table of the selection.
func (s *Selector) Table() string { return s.table }

// C returns the given column qualified by the selection table.
func (s *Selector) C(column string) string {
	if s.table == "" {
		return column
	}
	return s.table + "." + column
}

// Columns replaces the selected columns.
func (s *Selector) Columns(columns ...string) *Selector {
	s.columns = columns
	return s
}

// SelectedColumns returns the selected columns.
func (s *Selector) SelectedColumns() []string {
	cols := make([]string, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// AppendColumns adds extra columns to the selection list.
func (s *Selector) AppendColumns(columns ...string) *Selector {
	s.columns = append(s.columns, columns...)
	return s
}

// Distinct marks the selection as DISTINCT.
func (s *Selector) Distinct() *Selector {
	s.distinct = true
	return s
}

// Where sets or ANDs the where-clause predicate.
func (s *Selector) Where(p *Predicate) *Selector {
	if p == nil {
		return s
	}
	if s.where != nil {
		s.where = And(s.where, p)
	} else {
		s.where = p
	}
	return s
}

// Join adds an INNER JOIN to the given table with the given ON predicate.
func (s *Selector) Join(table string, on *Predicate) *Selector {
	s.joins = append(s.joins, join{kind: "JOIN", table: table, on: on})
	return s
}

// LeftJoin adds a LEFT JOIN to the given table with the given ON predicate.
func (s *Selector) LeftJoin(table string, on *Predicate) *Selector {
	s.joins = append(s.joins, join{kind: "LEFT JOIN", table: table, on: on})
	return s
}

// OrderBy appends order-by terms. A term may carry an explicit
// direction ("name DESC"); bare terms are treated as identifiers.
func (s *Selector) OrderBy(terms ...string) *Selector {
	s.orderBy = append(s.orderBy, terms...)
	return s
}

// Limit sets the LIMIT clause.
func (s *Selector) Limit(n int) *Selector {
	s.limit = &n
	return s
}

// Offset sets the OFFSET clause.
func (s *Selector) Offset(n int) *Selector {
	s.offset = &n
	return s
}

// Query returns the SELECT statement text and its arguments.
func (s *Selector) Query() (string, []any) {
	s.WriteString("SELECT ")
	if s.distinct {
		s.WriteString("DISTINCT ")
	}
	if len(s.columns) == 0 {
		s.WriteString("*")
	}
	for i, c := range s.columns {
		if i > 0 {
			s.WriteString(", ")
		}
		s.Ident(c)
	}
	s.WriteString(" FROM ")
	s.Ident(s.table)
	for _, j := range s.joins {
		s.WriteString(" " + j.kind + " ")
		s.Ident(j.table)
		if j.on != nil {
			s.WriteString(" ON ")
			j.on.build(&s.Builder)
		}
	}
	if s.where != nil {
		s.WriteString(" WHERE ")
		s.where.build(&s.Builder)
	}
	for i, term := range s.orderBy {
		if i == 0 {
			s.WriteString(" ORDER BY ")
		} else {
			s.WriteString(", ")
		}
		dir := ""
		col := term
		if t, ok := strings.CutSuffix(term, " DESC"); ok {
			col, dir = t, " DESC"
		} else if t, ok := strings.CutSuffix(term, " ASC"); ok {
			col, dir = t, " ASC"
		}
		s.Ident(col).WriteString(dir)
	}
	if s.limit != nil {
		s.WriteString(" LIMIT " + strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		s.WriteString(" OFFSET " + strconv.Itoa(*s.offset))
	}
	return s.String(), s.args
}

// InsertBuilder builds an INSERT statement.
type InsertBuilder struct {
	Builder
	table     string
	columns   []string
	values    [][]any
	returning []string
	defaults  bool
}

// Insert returns a new InsertBuilder for the given table.
func Insert(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Table returns the target table.
func (i *InsertBuilder) Table() string { return i.table }

// Columns sets the insert column list.
func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = columns
	return i
}

// Values appends one row of values matching the column list. Calling it
// multiple times produces a multi-row insert.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.values = append(i.values, values)
	return i
}

// Default builds an insert with DEFAULT VALUES and no column list.
func (i *InsertBuilder) Default() *InsertBuilder {
	i.defaults = true
	return i
}

// Returning requests the given columns back from the insert. It takes
// effect only on dialects with RETURNING support.
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	i.returning = columns
	return i
}

// Query returns the INSERT statement text and its arguments.
func (i *InsertBuilder) Query() (string, []any) {
	i.WriteString("INSERT INTO ")
	i.Ident(i.table)
	if i.defaults && len(i.columns) == 0 {
		i.WriteString(" DEFAULT VALUES")
	} else {
		i.WriteString(" (")
		for j, c := range i.columns {
			if j > 0 {
				i.WriteString(", ")
			}
			i.Ident(c)
		}
		i.WriteString(") VALUES ")
		for j, row := range i.values {
			if j > 0 {
				i.WriteString(", ")
			}
			i.WriteByte('(')
			i.Args(row...)
			i.WriteByte(')')
		}
	}
	if len(i.returning) > 0 && dialect.SupportsReturning(i.dialect) {
		i.WriteString(" RETURNING ")
		for j, c := range i.returning {
			if j > 0 {
				i.WriteString(", ")
			}
			i.Ident(c)
		}
	}
	return i.String(), i.args
}

// UpdateBuilder builds an UPDATE statement.
type UpdateBuilder struct {
	Builder
	table   string
	columns []string
	values  []any
	where   *Predicate
}

// Update returns a new UpdateBuilder for the given table.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Table returns the target table.
func (u *UpdateBuilder) Table() string { return u.table }

// Set appends a column assignment to the SET clause.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.columns = append(u.columns, column)
	u.values = append(u.values, v)
	return u
}

// Empty reports whether the SET clause has no assignments.
func (u *UpdateBuilder) Empty() bool { return len(u.columns) == 0 }

// Where sets or ANDs the where-clause predicate.
func (u *UpdateBuilder) Where(p *Predicate) *UpdateBuilder {
	if p == nil {
		return u
	}
	if u.where != nil {
		u.where = And(u.where, p)
	} else {
		u.where = p
	}
	return u
}

// Query returns the UPDATE statement text and its arguments.
func (u *UpdateBuilder) Query() (string, []any) {
	u.WriteString("UPDATE ")
	u.Ident(u.table)
	u.WriteString(" SET ")
	for j, c := range u.columns {
		if j > 0 {
			u.WriteString(", ")
		}
		u.Ident(c).WriteString(" = ")
		u.Arg(u.values[j])
	}
	if u.where != nil {
		u.WriteString(" WHERE ")
		u.where.build(&u.Builder)
	}
	return u.String(), u.args
}

// DeleteBuilder builds a DELETE statement.
type DeleteBuilder struct {
	Builder
	table string
	where *Predicate
}

// Delete returns a new DeleteBuilder for the given table.
func Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

// Table returns the target table.
func (d *DeleteBuilder) Table() string { return d.table }

// Where sets or ANDs the where-clause predicate.
func (d *DeleteBuilder) Where(p *Predicate) *DeleteBuilder {
	if p == nil {
		return d
	}
	if d.where != nil {
		d.where = And(d.where, p)
	} else {
		d.where = p
	}
	return d
}

// Query returns the DELETE statement text and its arguments.
func (d *DeleteBuilder) Query() (string, []any) {
	d.WriteString("DELETE FROM ")
	d.Ident(d.table)
	if d.where != nil {
		d.WriteString(" WHERE ")
		d.where.build(&d.Builder)
	}
	return d.String(), d.args
}

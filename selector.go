package strata

import (
	"context"

	"github.com/strataorm/strata/dialect/sql"
)

// Selector is the hydrating query builder: a SELECT over the entity's
// table whose terminal step constructs records instead of raw rows.
// Every builder operation except the terminal one passes straight
// through to the underlying statement.
type Selector struct {
	model *Model
	sel   *sql.Selector
}

func newSelector(m *Model, columns []string) *Selector {
	if len(columns) == 0 {
		columns = m.SelectedColumns()
	}
	return &Selector{model: m, sel: sql.Select(columns...)}
}

// Columns replaces the selected columns.
func (s *Selector) Columns(columns ...string) *Selector {
	s.sel.Columns(columns...)
	return s
}

// AppendColumns adds columns to the selection list.
func (s *Selector) AppendColumns(columns ...string) *Selector {
	s.sel.AppendColumns(columns...)
	return s
}

// Where ANDs the given predicate into the statement.
func (s *Selector) Where(p *sql.Predicate) *Selector {
	s.sel.Where(p)
	return s
}

// Join adds an INNER JOIN on the given table.
func (s *Selector) Join(table string, on *sql.Predicate) *Selector {
	s.sel.Join(table, on)
	return s
}

// OrderBy appends order-by terms ("name", "age DESC").
func (s *Selector) OrderBy(terms ...string) *Selector {
	s.sel.OrderBy(terms...)
	return s
}

// Limit sets the LIMIT clause.
func (s *Selector) Limit(n int) *Selector {
	s.sel.Limit(n)
	return s
}

// Offset sets the OFFSET clause.
func (s *Selector) Offset(n int) *Selector {
	s.sel.Offset(n)
	return s
}

// All executes the statement and returns every matching row as a
// hydrated record, each value passed through its modifier chain.
func (s *Selector) All(ctx context.Context) ([]*Record, error) {
	rows, err := s.query(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]*Record, len(rows))
	for i, row := range rows {
		records[i] = s.model.hydrate(row)
	}
	return records, nil
}

// First executes the statement limited to one row and returns the
// hydrated record, or (nil, nil) when nothing matches.
func (s *Selector) First(ctx context.Context) (*Record, error) {
	s.sel.Limit(1)
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func (s *Selector) query(ctx context.Context) ([]map[string]any, error) {
	drv, err := s.model.driverOrErr()
	if err != nil {
		return nil, err
	}
	table, err := s.model.schema.tableName()
	if err != nil {
		return nil, err
	}
	s.sel.SetDialect(drv.Dialect())
	s.sel.From(table)
	query, args := s.sel.Query()
	var rows sql.Rows
	if err := drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	scanned, err := sql.ScanRows(rows)
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return scanned, nil
}

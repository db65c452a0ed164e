package strata

import (
	"context"

	"github.com/strataorm/strata/dialect/sql"
)

// Record is one in-memory instance of an entity type: an ordered
// column→value mapping bound to its model. Records carry no identity
// beyond their primary key value; two loads of the same row yield two
// distinct records.
type Record struct {
	model   *Model
	columns []string
	values  map[string]any
}

func newRecord(m *Model) *Record {
	return &Record{model: m, values: make(map[string]any)}
}

// Model returns the entity type this record belongs to.
func (r *Record) Model() *Model { return r.model }

// Set assigns a column value, remembering first-assignment order.
func (r *Record) Set(column string, value any) *Record {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
	return r
}

// Get returns the column value, or nil when the column is unset.
func (r *Record) Get(column string) any { return r.values[column] }

// ValueOf returns the column value, or a MissingFieldError when no
// value has been assigned.
func (r *Record) ValueOf(column string) (any, error) {
	v, ok := r.values[column]
	if !ok {
		return nil, NewMissingFieldError(r.model.Name(), column)
	}
	return v, nil
}

// Has reports whether the column has a value.
func (r *Record) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Columns returns the record's column names in assignment order.
func (r *Record) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

// Values returns a copy of the record's column values.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// PrimaryKey returns the record's primary key value, or a
// MissingFieldError when the record was never persisted or loaded.
func (r *Record) PrimaryKey() (any, error) {
	return r.ValueOf(r.model.PrimaryKeyColumn())
}

// Update persists the record's current fields with a single UPDATE
// filtered by primary key equality. Columns listed in the schema's
// IgnoredColumns are left out of the SET clause but keep their
// in-memory values. With timestamps enabled the updated-at column is
// overwritten with the current UTC instant and copied back onto the
// record on success.
func (r *Record) Update(ctx context.Context) error {
	pkCol := r.model.PrimaryKeyColumn()
	pkVal, err := r.ValueOf(pkCol)
	if err != nil {
		return err
	}
	b, table, err := r.model.builder()
	if err != nil {
		return err
	}
	drv, _ := r.model.driverOrErr()

	ignored := make(map[string]struct{}, len(r.model.schema.IgnoredColumns))
	for _, c := range r.model.schema.IgnoredColumns {
		ignored[c] = struct{}{}
	}
	row := make(map[string]any, len(r.values))
	for c, v := range r.values {
		if _, skip := ignored[c]; skip {
			continue
		}
		row[c] = v
	}
	if r.model.TimestampsEnabled() {
		row[r.model.UpdatedAtColumn()] = r.model.schema.now()
	}
	r.model.hub.Emit(PreUpdate, row)

	update := b.Update(table)
	for _, c := range sortedKeys(row) {
		update.Set(c, row[c])
	}
	update.Where(sql.EQ(pkCol, pkVal))
	query, args := update.Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return err
	}
	// Local state mirrors exactly what was sent.
	for _, c := range sortedKeys(row) {
		r.Set(c, row[c])
	}
	r.model.hub.Emit(PostUpdate, r)
	return nil
}

// Delete removes the record's row with a single DELETE filtered by
// primary key equality. The in-memory record is left untouched.
func (r *Record) Delete(ctx context.Context) error {
	pkCol := r.model.PrimaryKeyColumn()
	pkVal, err := r.ValueOf(pkCol)
	if err != nil {
		return err
	}
	b, table, err := r.model.builder()
	if err != nil {
		return err
	}
	drv, _ := r.model.driverOrErr()

	r.model.hub.Emit(PreDelete, r)
	query, args := b.Delete(table).Where(sql.EQ(pkCol, pkVal)).Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return err
	}
	r.model.hub.Emit(PostDelete, r)
	return nil
}

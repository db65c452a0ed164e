package strata

import (
	"context"
	"sort"
	"strconv"

	"github.com/strataorm/strata/dialect"
	"github.com/strataorm/strata/dialect/sql"
)

// Model is the runtime handle for one entity type: an immutable Schema
// bound to a driver, plus the type's lifecycle event hub. All
// configuration is resolved through the schema on every call, so
// swapping the schema (by building a new model) takes effect
// immediately and nothing is cached across calls.
type Model struct {
	schema Schema
	driver dialect.Driver
	hub    *Hub
}

// NewModel builds the runtime handle for an entity type. The event hub
// is created here, ready for use; missing configuration is not an error
// until an operation actually needs it.
func NewModel(schema Schema, drv dialect.Driver) *Model {
	return &Model{schema: schema, driver: drv, hub: NewHub()}
}

// Name returns the entity type name used in conventions and errors.
func (m *Model) Name() string { return m.schema.displayName() }

// Schema returns a copy of the model's schema.
func (m *Model) Schema() Schema { return m.schema }

// Table returns the configured table name, or a ConfigError when unset.
func (m *Model) Table() (string, error) { return m.schema.tableName() }

// PrimaryKeyColumn returns the primary key column ("id" by default).
func (m *Model) PrimaryKeyColumn() string { return m.schema.primaryKeyColumn() }

// ForeignKeyColumn returns the column other tables use to reference
// this entity (snake-cased name + "_" + primary key by default).
func (m *Model) ForeignKeyColumn() string { return m.schema.foreignKeyColumn() }

// CreatedAtColumn returns the creation timestamp column.
func (m *Model) CreatedAtColumn() string { return m.schema.createdAtColumn() }

// UpdatedAtColumn returns the update timestamp column.
func (m *Model) UpdatedAtColumn() string { return m.schema.updatedAtColumn() }

// TimestampsEnabled reports whether inserts and updates stamp the
// timestamp columns automatically.
func (m *Model) TimestampsEnabled() bool { return !m.schema.DisableTimestamps }

// SelectedColumns returns the columns read paths fetch. Empty means
// every column of the table.
func (m *Model) SelectedColumns() []string {
	cols := make([]string, len(m.schema.Columns))
	copy(cols, m.schema.Columns)
	return cols
}

// IgnoredColumns returns the columns excluded from instance updates.
func (m *Model) IgnoredColumns() []string {
	cols := make([]string, len(m.schema.IgnoredColumns))
	copy(cols, m.schema.IgnoredColumns)
	return cols
}

// ModifiersFor returns the modifier chain for the column. Unknown
// columns yield an empty chain.
func (m *Model) ModifiersFor(column string) []Modifier { return m.schema.modifiersFor(column) }

// LinkTableWith derives the association table name shared with the
// other entity type: both names snake-cased, sorted alphabetically and
// joined with "_". It fails with a ConfigError when other is not a
// valid model or either name cannot be resolved.
func (m *Model) LinkTableWith(other *Model) (string, error) {
	if other == nil {
		return "", NewConfigError(m.Name(), "linkTable", "related model is nil")
	}
	a, b := m.schema.entityName(), other.schema.entityName()
	if a == "" || b == "" {
		return "", NewConfigError(m.Name(), "linkTable", "entity names must be resolvable")
	}
	return linkTableName(a, b), nil
}

// Events returns the entity type's lifecycle event hub.
func (m *Model) Events() *Hub { return m.hub }

// driverOrErr returns the bound driver, or a ConfigError when the model
// was built without one.
func (m *Model) driverOrErr() (dialect.Driver, error) {
	if m.driver == nil {
		return nil, NewConfigError(m.Name(), "Driver", "no database driver configured")
	}
	return m.driver, nil
}

// builder returns a statement builder prefix for the driver's dialect
// plus the resolved table, failing with ConfigError when either is unset.
func (m *Model) builder() (*sql.DialectBuilder, string, error) {
	drv, err := m.driverOrErr()
	if err != nil {
		return nil, "", err
	}
	table, err := m.schema.tableName()
	if err != nil {
		return nil, "", err
	}
	return sql.Dialect(drv.Dialect()), table, nil
}

// hydrate constructs a record from a fetched row, passing every column
// value through its modifier chain in registration order.
func (m *Model) hydrate(row map[string]any) *Record {
	rec := newRecord(m)
	for _, column := range sortedKeys(row) {
		value := row[column]
		for _, modify := range m.schema.modifiersFor(column) {
			value = modify(value)
		}
		rec.Set(column, value)
	}
	return rec
}

// NewRecord returns an empty record of this entity type. Fields are
// assigned with Set and persisted with Insert or Update.
func (m *Model) NewRecord() *Record { return newRecord(m) }

// Select starts a hydrating query over the entity's table. With no
// columns given, the schema's selected columns (or all columns) apply.
func (m *Model) Select(columns ...string) *Selector {
	return newSelector(m, columns)
}

// Where scopes deferred select/update/delete operations to the given
// predicate. The scoped operations emit no lifecycle events; they are
// the low-level escape hatch below instance CRUD.
func (m *Model) Where(p *sql.Predicate) *Scope {
	return &Scope{model: m, pred: p}
}

// Find fetches the record whose primary key equals key. It returns
// (nil, nil) when no row matches.
func (m *Model) Find(ctx context.Context, key any) (*Record, error) {
	return m.Select().Where(sql.EQ(m.PrimaryKeyColumn(), key)).First(ctx)
}

// FindMany fetches every record whose primary key is in keys. The
// result holds only the rows that exist; missing keys are not an error.
func (m *Model) FindMany(ctx context.Context, keys ...any) ([]*Record, error) {
	return m.Select().Where(sql.In(m.PrimaryKeyColumn(), keys...)).All(ctx)
}

// Insert persists one row and returns the hydrated record. With
// timestamps enabled both timestamp columns are stamped with one UTC
// instant before the pre-event fires. On dialects with RETURNING
// support the primary key is read back through the statement itself;
// elsewhere the driver's generated key is used.
func (m *Model) Insert(ctx context.Context, row map[string]any) (*Record, error) {
	if len(row) == 0 {
		return nil, NewValidationError("insert", "row must be a non-empty column/value map")
	}
	b, table, err := m.builder()
	if err != nil {
		return nil, err
	}
	drv, _ := m.driverOrErr()
	ins := make(map[string]any, len(row)+2)
	for k, v := range row {
		ins[k] = v
	}
	if m.TimestampsEnabled() {
		now := m.schema.now()
		ins[m.CreatedAtColumn()] = now
		ins[m.UpdatedAtColumn()] = now
	}
	m.hub.Emit(PreInsert, ins)

	pk := m.PrimaryKeyColumn()
	columns := sortedKeys(ins)
	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = ins[c]
	}
	insert := b.Insert(table).Columns(columns...).Values(values...)

	out := make(map[string]any, len(ins)+1)
	for k, v := range ins {
		out[k] = v
	}
	if dialect.SupportsReturning(drv.Dialect()) {
		query, args := insert.Returning(pk).Query()
		var rows sql.Rows
		if err := drv.Query(ctx, query, args, &rows); err != nil {
			return nil, err
		}
		returned, err := sql.ScanOne(rows)
		if cerr := rows.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
		if returned != nil {
			if v, ok := returned[pk]; ok {
				out[pk] = v
			}
		}
	} else {
		query, args := insert.Query()
		var res sql.Result
		if err := drv.Exec(ctx, query, args, &res); err != nil {
			return nil, err
		}
		if _, exists := out[pk]; !exists {
			if id, err := res.LastInsertId(); err == nil {
				out[pk] = id
			}
		}
	}
	rec := m.hydrate(out)
	m.hub.Emit(PostInsert, rec)
	return rec, nil
}

// InsertMany persists all rows with a single multi-row statement. One
// shared timestamp stamps the whole batch. Backends with RETURNING
// support yield one key per row, merged positionally; on other backends
// the records come back without primary keys.
func (m *Model) InsertMany(ctx context.Context, rows []map[string]any) ([]*Record, error) {
	if len(rows) == 0 {
		return nil, NewValidationError("insertMany", "rows must be a non-empty list")
	}
	for i, row := range rows {
		if len(row) == 0 {
			return nil, NewValidationError("insertMany", "row "+strconv.Itoa(i)+" must be a non-empty column/value map")
		}
	}
	b, table, err := m.builder()
	if err != nil {
		return nil, err
	}
	drv, _ := m.driverOrErr()

	batch := make([]map[string]any, len(rows))
	var now any
	if m.TimestampsEnabled() {
		now = m.schema.now()
	}
	columnSet := make(map[string]struct{})
	for i, row := range rows {
		ins := make(map[string]any, len(row)+2)
		for k, v := range row {
			ins[k] = v
		}
		if now != nil {
			ins[m.CreatedAtColumn()] = now
			ins[m.UpdatedAtColumn()] = now
		}
		for k := range ins {
			columnSet[k] = struct{}{}
		}
		batch[i] = ins
	}
	m.hub.Emit(PreInsertMany, batch)

	pk := m.PrimaryKeyColumn()
	columns := sortedKeys(columnSet)
	insert := b.Insert(table).Columns(columns...)
	for _, row := range batch {
		values := make([]any, len(columns))
		for i, c := range columns {
			values[i] = row[c]
		}
		insert.Values(values...)
	}

	if dialect.SupportsReturning(drv.Dialect()) {
		query, args := insert.Returning(pk).Query()
		var rsRows sql.Rows
		if err := drv.Query(ctx, query, args, &rsRows); err != nil {
			return nil, err
		}
		returned, err := sql.ScanRows(rsRows)
		if cerr := rsRows.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
		for i := range batch {
			if i >= len(returned) {
				break
			}
			if v, ok := returned[i][pk]; ok {
				batch[i][pk] = v
			}
		}
	} else {
		query, args := insert.Query()
		if err := drv.Exec(ctx, query, args, nil); err != nil {
			return nil, err
		}
	}
	records := make([]*Record, len(batch))
	for i, row := range batch {
		records[i] = m.hydrate(row)
	}
	m.hub.Emit(PostInsertMany, records)
	return records, nil
}

// sortedKeys returns the keys of a string-keyed map in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

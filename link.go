package strata

import (
	"context"

	"github.com/strataorm/strata/dialect/sql"
)

// linkEndpoints resolves everything a link operation needs: the
// association table, both foreign-key columns, and this record's
// primary key value. Validation failures surface before any lifecycle
// event fires.
func (r *Record) linkEndpoints(op string, other *Model, table string) (linkSpec, error) {
	var spec linkSpec
	if other == nil {
		return spec, NewValidationError(op, "related model is nil")
	}
	if table == "" {
		derived, err := r.model.LinkTableWith(other)
		if err != nil {
			return spec, err
		}
		table = derived
	}
	pkVal, err := r.PrimaryKey()
	if err != nil {
		return spec, err
	}
	spec = linkSpec{
		table:    table,
		parentFK: r.model.ForeignKeyColumn(),
		childFK:  other.ForeignKeyColumn(),
		parentID: pkVal,
	}
	return spec, nil
}

type linkSpec struct {
	table    string
	parentFK string
	childFK  string
	parentID any
}

// validLinkTarget checks a single link/unlink argument.
func validLinkTarget(op string, other *Record) error {
	if other == nil || other.model == nil {
		return NewValidationError(op, "target must be a record instance")
	}
	return nil
}

// validLinkTargets checks a link-many/unlink-many argument list: it
// must be non-empty, contain only record instances, and not mix entity
// types.
func validLinkTargets(op string, others []*Record) error {
	if len(others) == 0 {
		return NewValidationError(op, "targets must be a non-empty list of records")
	}
	for _, o := range others {
		if err := validLinkTarget(op, o); err != nil {
			return err
		}
		if o.model != others[0].model {
			return NewValidationError(op, "targets must all be of the same entity type")
		}
	}
	return nil
}

// Link creates one row in the association table between this record and
// other. The table name is derived by convention unless overridden.
// Caller-supplied extra columns are merged into the association row.
func (r *Record) Link(ctx context.Context, other *Record, table string, extra map[string]any) error {
	if err := validLinkTarget("link", other); err != nil {
		return err
	}
	spec, err := r.linkEndpoints("link", other.model, table)
	if err != nil {
		return err
	}
	childID, err := other.PrimaryKey()
	if err != nil {
		return err
	}
	row := map[string]any{
		spec.parentFK: spec.parentID,
		spec.childFK:  childID,
	}
	for k, v := range extra {
		row[k] = v
	}
	drv, err := r.model.driverOrErr()
	if err != nil {
		return err
	}
	r.model.hub.Emit(PreLink, row)
	columns := sortedKeys(row)
	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = row[c]
	}
	query, args := sql.Dialect(drv.Dialect()).
		Insert(spec.table).
		Columns(columns...).
		Values(values...).
		Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return err
	}
	r.model.hub.Emit(PostLink, row)
	return nil
}

// LinkMany creates one association row per target with a single
// multi-row INSERT. Extra rows merge positionally into the association
// rows; extras beyond the shorter list's length are ignored.
func (r *Record) LinkMany(ctx context.Context, others []*Record, table string, extras []map[string]any) error {
	if err := validLinkTargets("linkMany", others); err != nil {
		return err
	}
	spec, err := r.linkEndpoints("linkMany", others[0].model, table)
	if err != nil {
		return err
	}
	rows := make([]map[string]any, len(others))
	columnSet := make(map[string]struct{})
	for i, other := range others {
		childID, err := other.PrimaryKey()
		if err != nil {
			return err
		}
		row := map[string]any{
			spec.parentFK: spec.parentID,
			spec.childFK:  childID,
		}
		if i < len(extras) {
			for k, v := range extras[i] {
				row[k] = v
			}
		}
		for k := range row {
			columnSet[k] = struct{}{}
		}
		rows[i] = row
	}
	drv, err := r.model.driverOrErr()
	if err != nil {
		return err
	}
	r.model.hub.Emit(PreLinkMany, rows)
	columns := sortedKeys(columnSet)
	insert := sql.Dialect(drv.Dialect()).Insert(spec.table).Columns(columns...)
	for _, row := range rows {
		values := make([]any, len(columns))
		for i, c := range columns {
			values[i] = row[c]
		}
		insert.Values(values...)
	}
	query, args := insert.Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return err
	}
	r.model.hub.Emit(PostLinkMany, rows)
	return nil
}

// Unlink removes the association row between this record and other
// with a single DELETE on both foreign-key columns.
func (r *Record) Unlink(ctx context.Context, other *Record, table string) error {
	if err := validLinkTarget("unlink", other); err != nil {
		return err
	}
	spec, err := r.linkEndpoints("unlink", other.model, table)
	if err != nil {
		return err
	}
	childID, err := other.PrimaryKey()
	if err != nil {
		return err
	}
	drv, err := r.model.driverOrErr()
	if err != nil {
		return err
	}
	r.model.hub.Emit(PreUnlink, other)
	query, args := sql.Dialect(drv.Dialect()).
		Delete(spec.table).
		Where(sql.And(
			sql.EQ(spec.parentFK, spec.parentID),
			sql.EQ(spec.childFK, childID),
		)).
		Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return err
	}
	r.model.hub.Emit(PostUnlink, other)
	return nil
}

// UnlinkMany removes the association rows between this record and all
// targets with a single DELETE using an IN filter.
func (r *Record) UnlinkMany(ctx context.Context, others []*Record, table string) error {
	if err := validLinkTargets("unlinkMany", others); err != nil {
		return err
	}
	spec, err := r.linkEndpoints("unlinkMany", others[0].model, table)
	if err != nil {
		return err
	}
	childIDs := make([]any, len(others))
	for i, other := range others {
		id, err := other.PrimaryKey()
		if err != nil {
			return err
		}
		childIDs[i] = id
	}
	drv, err := r.model.driverOrErr()
	if err != nil {
		return err
	}
	r.model.hub.Emit(PreUnlinkMany, others)
	query, args := sql.Dialect(drv.Dialect()).
		Delete(spec.table).
		Where(sql.And(
			sql.EQ(spec.parentFK, spec.parentID),
			sql.In(spec.childFK, childIDs...),
		)).
		Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return err
	}
	r.model.hub.Emit(PostUnlinkMany, others)
	return nil
}

package strata

import (
	"context"

	"github.com/strataorm/strata/dialect/sql"
)

// OneToOne resolves the single child record referencing this record:
// the child table is filtered by this entity's foreign-key column
// equalling this record's primary key value. Zero matches yield
// (nil, nil); more than one violates the declared cardinality and fails
// with a RelationshipIntegrityError naming both entity types.
func (r *Record) OneToOne(ctx context.Context, child *Model) (*Record, error) {
	if child == nil {
		return nil, NewValidationError("oneToOne", "related model is nil")
	}
	pkVal, err := r.PrimaryKey()
	if err != nil {
		return nil, err
	}
	matches, err := child.Select().Where(sql.EQ(r.model.ForeignKeyColumn(), pkVal)).All(ctx)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, NewRelationshipIntegrityError(r.model.Name(), child.Name(), len(matches))
	}
}

// References resolves the parent record this record points at: the
// inverse of OneToOne. The foreign key lives on this, child-side,
// record under the parent's foreign-key column; the parent table is
// filtered by its primary key equalling that value. Cardinality policy
// matches OneToOne with the roles swapped.
func (r *Record) References(ctx context.Context, parent *Model) (*Record, error) {
	if parent == nil {
		return nil, NewValidationError("references", "related model is nil")
	}
	fkVal, err := r.ValueOf(parent.ForeignKeyColumn())
	if err != nil {
		return nil, err
	}
	matches, err := parent.Select().Where(sql.EQ(parent.PrimaryKeyColumn(), fkVal)).All(ctx)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, NewRelationshipIntegrityError(parent.Name(), r.model.Name(), len(matches))
	}
}

// OneToMany resolves every child record referencing this record. The
// result may be empty; no cardinality restriction applies.
func (r *Record) OneToMany(ctx context.Context, child *Model) ([]*Record, error) {
	if child == nil {
		return nil, NewValidationError("oneToMany", "related model is nil")
	}
	pkVal, err := r.PrimaryKey()
	if err != nil {
		return nil, err
	}
	return child.Select().Where(sql.EQ(r.model.ForeignKeyColumn(), pkVal)).All(ctx)
}

// ManyToMany resolves the child records linked to this record through
// an association table. The table name is derived by convention unless
// overridden with a non-empty table argument. Requested association
// table columns are carried onto each child record as extra fields.
//
// The statement inner-joins the child table to the association table on
// the child's primary key, filtered by this record's primary key value
// in the association table's parent foreign-key column.
func (r *Record) ManyToMany(ctx context.Context, child *Model, table string, extraColumns ...string) ([]*Record, error) {
	if child == nil {
		return nil, NewValidationError("manyToMany", "related model is nil")
	}
	pkVal, err := r.PrimaryKey()
	if err != nil {
		return nil, err
	}
	if table == "" {
		table, err = r.model.LinkTableWith(child)
		if err != nil {
			return nil, err
		}
	}
	childTable, err := child.Table()
	if err != nil {
		return nil, err
	}

	columns := child.SelectedColumns()
	if len(columns) == 0 {
		columns = []string{childTable + ".*"}
	} else {
		for i, c := range columns {
			columns[i] = childTable + "." + c
		}
	}
	sel := child.Select(columns...)
	for _, c := range extraColumns {
		sel.AppendColumns(table + "." + c)
	}
	sel.Join(table, sql.ColumnsEQ(
		childTable+"."+child.PrimaryKeyColumn(),
		table+"."+child.ForeignKeyColumn(),
	))
	sel.Where(sql.EQ(table+"."+r.model.ForeignKeyColumn(), pkVal))
	return sel.All(ctx)
}

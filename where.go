package strata

import (
	"context"

	"github.com/strataorm/strata/dialect/sql"
)

// Scope exposes deferred select/update/delete operations bound to one
// predicate over the entity's table. None of the three emit lifecycle
// events: the scope is a low-level escape hatch distinct from
// instance-level CRUD.
type Scope struct {
	model *Model
	pred  *sql.Predicate
}

// Select executes a SELECT with the scope's predicate and returns the
// hydrated matches.
func (sc *Scope) Select(ctx context.Context) ([]*Record, error) {
	return sc.model.Select().Where(sc.pred).All(ctx)
}

// Update executes a single UPDATE with the scope's predicate and the
// given column/value pairs as the SET clause.
func (sc *Scope) Update(ctx context.Context, set map[string]any) error {
	if len(set) == 0 {
		return NewValidationError("where.update", "set must be a non-empty column/value map")
	}
	b, table, err := sc.model.builder()
	if err != nil {
		return err
	}
	drv, _ := sc.model.driverOrErr()
	update := b.Update(table)
	for _, c := range sortedKeys(set) {
		update.Set(c, set[c])
	}
	update.Where(sc.pred)
	query, args := update.Query()
	return drv.Exec(ctx, query, args, nil)
}

// Delete executes a single DELETE with the scope's predicate.
func (sc *Scope) Delete(ctx context.Context) error {
	b, table, err := sc.model.builder()
	if err != nil {
		return err
	}
	drv, _ := sc.model.driverOrErr()
	query, args := b.Delete(table).Where(sc.pred).Query()
	return drv.Exec(ctx, query, args, nil)
}

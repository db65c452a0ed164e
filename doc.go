// Package strata maps relational tables to typed, event-aware records
// without hand-written SQL.
//
// An entity type is configured once with a Schema and bound to a
// dialect.Driver through NewModel:
//
//	users := strata.NewModel(strata.Schema{Name: "User", Table: "users"}, drv)
//
// The model exposes static operations (Insert, InsertMany, Find,
// FindMany, Select, Where) and returns *Record instances that carry the
// instance operations: Update, Delete, the relationship accessors
// (OneToOne, References, OneToMany, ManyToMany) and the link manager
// (Link, LinkMany, Unlink, UnlinkMany).
//
// Naming is convention driven. The default primary key is "id"; the
// default foreign key is the snake-cased entity name joined with the
// primary key column (User -> "user_id"); the default association
// table between two entity types is both names snake-cased, sorted
// alphabetically and joined with "_".
//
// Each model owns a lifecycle event hub with a pre and post tag for
// every mutating operation. Emission is synchronous and in
// subscription order; a failing statement means the pre tag fired and
// the post tag did not. Column modifiers registered on the schema run
// in order against every fetched value before a record is handed back.
package strata

// Package sql provides the database/sql driver implementation and the
// SQL statement builders used by the strata runtime.
//
// # Driver
//
// Open or wrap a database/sql connection pool:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	drv := sql.OpenDB(dialect.SQLite, db)
//
// The returned Driver implements dialect.Driver and is handed to the
// runtime when building models.
//
// # Builders
//
// Statement builders are fluent and dialect-aware. Placeholders render
// as $n on postgres and ? elsewhere; identifiers are quoted with the
// dialect's quote character:
//
//	q, args := sql.Dialect(dialect.Postgres).
//		Select("id", "name").
//		From("users").
//		Where(sql.EQ("active", true)).
//		OrderBy("name").
//		Limit(10).
//		Query()
//
// Predicates compose with And, Or and Not. ColumnsEQ builds a
// column-to-column condition for joins.
package sql

// Package dialect defines the database abstraction consumed by the
// strata runtime.
//
// A Driver executes statements against one backend and reports its
// dialect name; the runtime uses the name only to decide placeholder
// style, identifier quoting, and whether inserts may request a
// RETURNING clause. Connection pooling, release, and transactions are
// owned entirely by the Driver implementation.
//
// The dialect/sql sub-package implements Driver on top of database/sql
// and carries the statement builders.
package dialect

package dialect

import (
	"context"
	"log"
)

// Dialect names registered with the strata runtime.
const (
	// MySQL is the mysql dialect.
	MySQL = "mysql"
	// SQLite is the sqlite dialect.
	SQLite = "sqlite"
	// Postgres is the postgres dialect.
	Postgres = "postgres"
)

// ExecQuerier wraps the two standard database operations.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. The v argument
	// is a destination for the execution result and its type depends on the
	// underlying driver implementation (*sql.Result for dialect/sql).
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows. The v argument holds
	// the rows destination (*sql.Rows for dialect/sql).
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the minimal interface the strata runtime needs from a
// database connection. Ownership of pooling and release stays with the
// implementation.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps transaction behavior on top of ExecQuerier.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// SupportsReturning reports whether the given dialect can return
// inserted rows through a RETURNING clause. Backends without it report
// generated keys through the statement result instead.
func SupportsReturning(name string) bool {
	return name == Postgres || name == SQLite
}

// DebugDriver is a driver that logs all driver operations.
type DebugDriver struct {
	Driver
	log func(context.Context, ...any)
}

// Debug gets a driver and an optional logging function, and returns a
// new debugged-driver that prints all outgoing operations.
func Debug(d Driver, logger ...func(...any)) Driver {
	logf := log.Println
	if len(logger) == 1 {
		logf = logger[0]
	}
	return &DebugDriver{d, func(_ context.Context, v ...any) { logf(v...) }}
}

// Exec logs its params and calls the underlying driver Exec method.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log(ctx, "driver.Exec: query="+query, "args=", args)
	return d.Driver.Exec(ctx, query, args, v)
}

// Query logs its params and calls the underlying driver Query method.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log(ctx, "driver.Query: query="+query, "args=", args)
	return d.Driver.Query(ctx, query, args, v)
}

// Tx starts a debugged transaction.
func (d *DebugDriver) Tx(ctx context.Context) (Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugTx{tx, d.log}, nil
}

// DebugTx is a transaction implementation that logs all transaction operations.
type DebugTx struct {
	Tx
	log func(context.Context, ...any)
}

// Exec logs its params and calls the underlying transaction Exec method.
func (d *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	d.log(ctx, "tx.Exec: query="+query, "args=", args)
	return d.Tx.Exec(ctx, query, args, v)
}

// Query logs its params and calls the underlying transaction Query method.
func (d *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	d.log(ctx, "tx.Query: query="+query, "args=", args)
	return d.Tx.Query(ctx, query, args, v)
}

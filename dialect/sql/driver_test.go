package sql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/dialect"
)

func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
	}{
		{"Postgres", dialect.Postgres},
		{"MySQL", dialect.MySQL},
		{"SQLite", dialect.SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			drv := OpenDB(tt.dialect, db)
			assert.Equal(t, tt.dialect, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

func TestDialectPrefix(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB("postgres:tracing", db)
	assert.Equal(t, dialect.Postgres, drv.Dialect())
}

func TestConnExec(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	mock.ExpectExec("DELETE FROM `users`").WillReturnResult(sqlmock.NewResult(0, 3))
	require.NoError(t, drv.Exec(context.Background(), "DELETE FROM `users`", []any{}, nil))

	mock.ExpectExec("INSERT INTO `users` (`name`) VALUES (?)").
		WithArgs("jane").
		WillReturnResult(sqlmock.NewResult(8, 1))
	var res sql.Result
	require.NoError(t, drv.Exec(context.Background(), "INSERT INTO `users` (`name`) VALUES (?)", []any{"jane"}, &res))
	id, err := res.LastInsertId()
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)

	// Destination and args must have the expected shapes.
	assert.Error(t, drv.Exec(context.Background(), "DELETE FROM `users`", "not-args", nil))
	assert.Error(t, drv.Exec(context.Background(), "DELETE FROM `users`", []any{}, "bad-dest"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnQuery(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	mock.ExpectQuery("SELECT * FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "jane").AddRow(2, "joe"))
	var rows Rows
	require.NoError(t, drv.Query(context.Background(), "SELECT * FROM `users`", []any{}, &rows))
	scanned, err := ScanRows(rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.Len(t, scanned, 2)
	assert.Equal(t, "jane", scanned[0]["name"])
	assert.Equal(t, "joe", scanned[1]["name"])

	assert.Error(t, drv.Query(context.Background(), "SELECT 1", []any{}, "bad-dest"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverTx(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM \"users\"").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Exec(context.Background(), "DELETE FROM \"users\"", []any{}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanRowsByteConversion(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.MySQL, db)

	mock.ExpectQuery("SELECT `name` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow([]byte("jane")))
	var rows Rows
	require.NoError(t, drv.Query(context.Background(), "SELECT `name` FROM `users`", []any{}, &rows))
	scanned, err := ScanRows(rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.Len(t, scanned, 1)
	assert.Equal(t, "jane", scanned[0]["name"])
}

func TestScanOneEmpty(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)

	mock.ExpectQuery("SELECT * FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	var rows Rows
	require.NoError(t, drv.Query(context.Background(), "SELECT * FROM `users`", []any{}, &rows))
	row, err := ScanOne(rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	assert.Nil(t, row)
}

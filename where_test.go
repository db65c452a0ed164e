package strata

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/dialect"
	"github.com/strataorm/strata/dialect/sql"
)

// The scope is an escape hatch below instance CRUD: none of its three
// operations emit lifecycle events.
func countAllEvents(m *Model) *int {
	var n int
	for _, e := range []Event{
		PreInsert, PostInsert, PreInsertMany, PostInsertMany,
		PreUpdate, PostUpdate, PreDelete, PostDelete,
	} {
		m.Events().On(e, func(Event, any) { n++ })
	}
	return &n
}

func TestScopeSelect(t *testing.T) {
	m, mock := mockModel(t, dialect.SQLite, Schema{Name: "User", Table: "users"})
	events := countAllEvents(m)
	mock.ExpectQuery("SELECT * FROM `users` WHERE `active` = ?").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "active"}).AddRow(1, true))

	recs, err := m.Where(sql.EQ("active", true)).Select(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Zero(t, *events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScopeUpdate(t *testing.T) {
	m, mock := mockModel(t, dialect.SQLite, Schema{Name: "User", Table: "users"})
	events := countAllEvents(m)
	mock.ExpectExec("UPDATE `users` SET `active` = ? WHERE `email` LIKE ?").
		WithArgs(false, "%@old.example").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := m.Where(sql.Like("email", "%@old.example")).
		Update(context.Background(), map[string]any{"active": false})
	require.NoError(t, err)
	assert.Zero(t, *events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScopeUpdateEmptySet(t *testing.T) {
	m, mock := mockModel(t, dialect.SQLite, Schema{Name: "User", Table: "users"})
	err := m.Where(sql.EQ("id", 1)).Update(context.Background(), nil)
	assert.True(t, IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScopeDelete(t *testing.T) {
	m, mock := mockModel(t, dialect.SQLite, Schema{Name: "User", Table: "users"})
	events := countAllEvents(m)
	mock.ExpectExec("DELETE FROM `users` WHERE `active` = ?").
		WithArgs(false).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := m.Where(sql.EQ("active", false)).Delete(context.Background())
	require.NoError(t, err)
	assert.Zero(t, *events)
	require.NoError(t, mock.ExpectationsWereMet())
}

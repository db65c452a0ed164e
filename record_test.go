package strata

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/dialect"
)

func TestRecordValues(t *testing.T) {
	m, _ := mockModel(t, dialect.SQLite, Schema{Name: "User", Table: "users"})
	rec := m.NewRecord().Set("email", "jane@example.com").Set("age", 30)

	assert.Equal(t, []string{"email", "age"}, rec.Columns(), "assignment order is kept")
	assert.Equal(t, "jane@example.com", rec.Get("email"))
	assert.Nil(t, rec.Get("missing"))
	assert.Same(t, m, rec.Model())

	v, err := rec.ValueOf("age")
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	_, err = rec.ValueOf("missing")
	assert.True(t, IsMissingField(err))

	vals := rec.Values()
	vals["email"] = "mutated"
	assert.Equal(t, "jane@example.com", rec.Get("email"), "Values returns a copy")
}

func TestRecordUpdate(t *testing.T) {
	m, mock := mockModel(t, dialect.SQLite, Schema{
		Name:           "User",
		Table:          "users",
		IgnoredColumns: []string{"id"},
	})
	mock.ExpectExec("UPDATE `users` SET `email` = ?, `updated_at` = ? WHERE `id` = ?").
		WithArgs("new@example.com", fixedNow, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := m.NewRecord().Set("id", 1).Set("email", "new@example.com")
	require.NoError(t, rec.Update(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())

	// Ignored columns stay out of the SET clause but keep their value.
	assert.Equal(t, 1, rec.Get("id"))
	assert.Equal(t, fixedNow, rec.Get("updated_at"), "persisted timestamp copied back")
}

func TestRecordUpdateWithoutPrimaryKey(t *testing.T) {
	m, mock := mockModel(t, dialect.SQLite, Schema{Name: "User", Table: "users"})
	var events int
	m.Events().On(PreUpdate, func(Event, any) { events++ })

	err := m.NewRecord().Set("email", "x").Update(context.Background())
	assert.True(t, IsMissingField(err))
	assert.Zero(t, events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordUpdateEventsOnFailure(t *testing.T) {
	m, mock := mockModel(t, dialect.SQLite, Schema{Name: "User", Table: "users", DisableTimestamps: true})
	boom := errors.New("deadlock")
	mock.ExpectExec("UPDATE `users` SET `email` = ?, `id` = ? WHERE `id` = ?").
		WithArgs("x", 1, 1).
		WillReturnError(boom)

	var pre, post int
	m.Events().On(PreUpdate, func(Event, any) { pre++ })
	m.Events().On(PostUpdate, func(Event, any) { post++ })

	err := m.NewRecord().Set("id", 1).Set("email", "x").Update(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, pre)
	assert.Zero(t, post)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDelete(t *testing.T) {
	m, mock := mockModel(t, dialect.SQLite, Schema{Name: "User", Table: "users"})
	mock.ExpectExec("DELETE FROM `users` WHERE `id` = ?").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	var order []Event
	m.Events().On(PreDelete, func(e Event, _ any) { order = append(order, e) })
	m.Events().On(PostDelete, func(e Event, _ any) { order = append(order, e) })

	rec := m.NewRecord().Set("id", 4)
	require.NoError(t, rec.Delete(context.Background()))
	assert.Equal(t, []Event{PreDelete, PostDelete}, order)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDeleteWithoutPrimaryKey(t *testing.T) {
	m, mock := mockModel(t, dialect.SQLite, Schema{Name: "User", Table: "users"})
	err := m.NewRecord().Delete(context.Background())
	assert.True(t, IsMissingField(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

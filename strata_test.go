package strata

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/strataorm/strata/dialect/sql"
)

// fixedNow is the instant injected into schemas under test.
var fixedNow = time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)

// mockModel builds a model over a sqlmock connection with exact
// statement matching.
func mockModel(t *testing.T, dialectName string, schema Schema) (*Model, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	if schema.Now == nil {
		schema.Now = func() time.Time { return fixedNow }
	}
	return NewModel(schema, sql.OpenDB(dialectName, db)), mock
}

// sibling builds a second model over the same schema style but its own
// connection; used by relationship and link tests that only need the
// other side's naming.
func sibling(t *testing.T, dialectName string, schema Schema) *Model {
	t.Helper()
	m, _ := mockModel(t, dialectName, schema)
	return m
}

// eventLog records every lifecycle event the model emits, in order.
func eventLog(m *Model) *[]Event {
	var log []Event
	for _, e := range []Event{
		PreInsert, PostInsert, PreInsertMany, PostInsertMany,
		PreUpdate, PostUpdate, PreDelete, PostDelete,
		PreLink, PostLink, PreLinkMany, PostLinkMany,
		PreUnlink, PostUnlink, PreUnlinkMany, PostUnlinkMany,
	} {
		m.Events().On(e, func(e Event, _ any) { log = append(log, e) })
	}
	return &log
}

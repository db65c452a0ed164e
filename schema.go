package strata

import (
	"sort"
	"strings"
	"time"

	"github.com/go-openapi/inflect"
)

// Schema is the static configuration of one entity type. It is built
// once by the application, handed to NewModel, and read (never mutated)
// by the runtime. Every unset field falls back to a convention-derived
// default at access time.
type Schema struct {
	// Name is the entity type name (e.g. "User"). It drives the default
	// foreign-key and link-table naming. When empty, the singular form
	// of the table name is used instead.
	Name string

	// Table is the backing table. Required; operations touching the
	// database fail with a ConfigError while it is unset.
	Table string

	// PrimaryKey is the primary key column. Defaults to "id".
	PrimaryKey string

	// ForeignKey is the column other tables use to reference this
	// entity. Defaults to the snake-cased entity name joined with the
	// primary key column (User -> "user_id").
	ForeignKey string

	// CreatedAtColumn and UpdatedAtColumn are the timestamp columns,
	// defaulting to "created_at" and "updated_at".
	CreatedAtColumn string
	UpdatedAtColumn string

	// DisableTimestamps turns off automatic timestamp columns on insert
	// and update. Timestamps are enabled by default.
	DisableTimestamps bool

	// Columns restricts the columns fetched by read paths. Empty means
	// all columns of the table.
	Columns []string

	// IgnoredColumns are excluded from the SET clause of instance
	// updates. They stay on the in-memory record.
	IgnoredColumns []string

	// Modifiers maps a column name to a chain of value transforms
	// applied, in order, to every value fetched for that column.
	Modifiers map[string][]Modifier

	// Now supplies the current instant for timestamp columns. Defaults
	// to time.Now. Values are stored in UTC either way.
	Now func() time.Time
}

// Modifier is a pure transform applied to a single column value after a
// row fetch. It must not depend on other columns.
type Modifier func(any) any

// entityName resolves the name used in naming conventions and error
// messages. Falls back to the singularized table name.
func (s Schema) entityName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Table != "" {
		return inflect.Singularize(s.Table)
	}
	return ""
}

// tableName returns the configured table, or a ConfigError naming the
// entity when it is unset.
func (s Schema) tableName() (string, error) {
	if strings.TrimSpace(s.Table) == "" {
		return "", NewConfigError(s.displayName(), "Table", "must be a non-empty string")
	}
	return s.Table, nil
}

// displayName is the best available name for error messages.
func (s Schema) displayName() string {
	if name := s.entityName(); name != "" {
		return name
	}
	return "<unnamed entity>"
}

// primaryKeyColumn returns the primary key column or its default.
func (s Schema) primaryKeyColumn() string {
	if s.PrimaryKey != "" {
		return s.PrimaryKey
	}
	return "id"
}

// foreignKeyColumn returns the foreign key column or its default:
// snake-cased entity name + "_" + primary key column.
func (s Schema) foreignKeyColumn() string {
	if s.ForeignKey != "" {
		return s.ForeignKey
	}
	return inflect.Underscore(s.entityName()) + "_" + s.primaryKeyColumn()
}

func (s Schema) createdAtColumn() string {
	if s.CreatedAtColumn != "" {
		return s.CreatedAtColumn
	}
	return "created_at"
}

func (s Schema) updatedAtColumn() string {
	if s.UpdatedAtColumn != "" {
		return s.UpdatedAtColumn
	}
	return "updated_at"
}

// now returns the current UTC instant from the configured time source.
func (s Schema) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// modifiersFor returns the modifier chain registered for the column.
// Unknown columns and nil entries yield an empty chain, never an error.
func (s Schema) modifiersFor(column string) []Modifier {
	chain := s.Modifiers[column]
	if len(chain) == 0 {
		return nil
	}
	out := make([]Modifier, 0, len(chain))
	for _, m := range chain {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// linkTableName derives the association table between two entity names:
// both snake-cased, sorted alphabetically, joined with "_". The sorted
// order is a convention callers must not assume to be parent-first.
func linkTableName(a, b string) string {
	names := []string{inflect.Underscore(a), inflect.Underscore(b)}
	sort.Strings(names)
	return strings.Join(names, "_")
}

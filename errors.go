package strata

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common failure classes.
var (
	// ErrInvalidConfig is returned when an entity schema is missing a
	// required setting or carries one of the wrong shape.
	ErrInvalidConfig = errors.New("strata: invalid entity configuration")

	// ErrInvalidInput is returned when operation arguments fail
	// structural validation before any statement executes.
	ErrInvalidInput = errors.New("strata: invalid input")

	// ErrNotSingular is returned when a one-to-one relationship query
	// matches more than one row.
	ErrNotSingular = errors.New("strata: relationship not singular")
)

// ConfigError reports missing or invalid static configuration on an
// entity schema. It surfaces at the point an accessor is used, not at
// model construction time.
type ConfigError struct {
	entity string
	field  string
	reason string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("strata: %s: invalid %q configuration: %s", e.entity, e.field, e.reason)
}

// Is reports whether the target error matches ConfigError.
func (e *ConfigError) Is(err error) bool {
	return err == ErrInvalidConfig
}

// Entity returns the entity name the configuration belongs to.
func (e *ConfigError) Entity() string { return e.entity }

// Field returns the configuration field that was missing or invalid.
func (e *ConfigError) Field() string { return e.field }

// NewConfigError returns a new ConfigError for the given entity and field.
func NewConfigError(entity, field, reason string) *ConfigError {
	return &ConfigError{entity: entity, field: field, reason: reason}
}

// IsConfig returns true if the error is a ConfigError.
func IsConfig(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidConfig)
}

// ValidationError reports malformed call arguments: empty rows, empty
// or mixed-type record lists, or a related model that is not valid.
// Validation happens synchronously before any I/O and before any
// lifecycle pre-event fires.
type ValidationError struct {
	op     string
	reason string
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("strata: %s: %s", e.op, e.reason)
}

// Is reports whether the target error matches ValidationError.
func (e *ValidationError) Is(err error) bool {
	return err == ErrInvalidInput
}

// Op returns the operation that rejected its input.
func (e *ValidationError) Op() string { return e.op }

// NewValidationError returns a new ValidationError for the given operation.
func NewValidationError(op, reason string) *ValidationError {
	return &ValidationError{op: op, reason: reason}
}

// IsValidation returns true if the error is a ValidationError.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidInput)
}

// RelationshipIntegrityError reports a one-to-one relationship query
// that matched more than one row. It names both entity types.
type RelationshipIntegrityError struct {
	parent string
	child  string
	count  int
}

// Error returns the error string.
func (e *RelationshipIntegrityError) Error() string {
	return fmt.Sprintf("strata: one-to-one between %s and %s matched %d rows", e.parent, e.child, e.count)
}

// Is reports whether the target error matches RelationshipIntegrityError.
func (e *RelationshipIntegrityError) Is(err error) bool {
	return err == ErrNotSingular
}

// Parent returns the parent-side entity name.
func (e *RelationshipIntegrityError) Parent() string { return e.parent }

// Child returns the child-side entity name.
func (e *RelationshipIntegrityError) Child() string { return e.child }

// NewRelationshipIntegrityError returns a new RelationshipIntegrityError.
func NewRelationshipIntegrityError(parent, child string, count int) *RelationshipIntegrityError {
	return &RelationshipIntegrityError{parent: parent, child: child, count: count}
}

// IsRelationshipIntegrity returns true if the error is a RelationshipIntegrityError.
func IsRelationshipIntegrity(err error) bool {
	if err == nil {
		return false
	}
	var e *RelationshipIntegrityError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// MissingFieldError reports access to a record field that has no value,
// typically the primary key of a record that was never persisted.
type MissingFieldError struct {
	entity string
	column string
}

// Error returns the error string.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("strata: %s: no value for column %q", e.entity, e.column)
}

// Column returns the missing column name.
func (e *MissingFieldError) Column() string { return e.column }

// NewMissingFieldError returns a new MissingFieldError.
func NewMissingFieldError(entity, column string) *MissingFieldError {
	return &MissingFieldError{entity: entity, column: column}
}

// IsMissingField returns true if the error is a MissingFieldError.
func IsMissingField(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingFieldError
	return errors.As(err, &e)
}

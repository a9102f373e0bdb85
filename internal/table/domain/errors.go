package table

import "errors"

var (
	// ErrInvalidField is returned when a field has an empty name or unknown type.
	ErrInvalidField = errors.New("table: invalid field")
	// ErrInvalidType is returned when a type label cannot be parsed.
	ErrInvalidType = errors.New("table: invalid column type")
	// ErrDuplicateColumn is returned when two fields share a name.
	ErrDuplicateColumn = errors.New("table: duplicate column")
	// ErrColumnNotFound is returned when an operation names an unknown column.
	ErrColumnNotFound = errors.New("table: column not found")
	// ErrTypeMismatch is returned when a value or operation does not fit the column type.
	ErrTypeMismatch = errors.New("table: type mismatch")
	// ErrRowWidth is returned when a row does not have one value per column.
	ErrRowWidth = errors.New("table: row width mismatch")
	// ErrCoercion is returned by strict numeric coercion on a non-numeric value.
	ErrCoercion = errors.New("table: numeric coercion failed")
	// ErrMissingTimestepAxis is returned when a year split is required but unavailable.
	ErrMissingTimestepAxis = errors.New("table: missing timestep axis")
)

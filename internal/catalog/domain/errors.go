package catalog

import "errors"

var (
	// ErrSchemaNotFound is returned when a key is not registered.
	ErrSchemaNotFound = errors.New("catalog: schema not found")
	// ErrInvalidSchema is returned when a schema definition is unusable.
	ErrInvalidSchema = errors.New("catalog: invalid schema")
	// ErrDuplicateKey is returned when a key or alias is registered twice.
	ErrDuplicateKey = errors.New("catalog: duplicate key")
	// ErrInvalidConversionFactor is returned for non-positive conversion factors.
	ErrInvalidConversionFactor = errors.New("catalog: invalid conversion factor")
)

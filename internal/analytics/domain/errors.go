package analytics

import "errors"

var (
	// ErrSchemaMismatch is returned when merged tables do not share columns.
	ErrSchemaMismatch = errors.New("analytics: schema mismatch")
	// ErrDuplicateCell is returned when a pivot meets two rows for one cell.
	ErrDuplicateCell = errors.New("analytics: duplicate pivot cell")
	// ErrInvalidPivotLabel is returned when a pivot label cannot name a column.
	ErrInvalidPivotLabel = errors.New("analytics: invalid pivot column label")
	// ErrNoSources is returned when Concat is called without tables.
	ErrNoSources = errors.New("analytics: no sources")
	// ErrInvalidMethod is returned for an unknown aggregation method.
	ErrInvalidMethod = errors.New("analytics: invalid aggregation method")
	// ErrNilLookup is returned when a join is requested without a lookup.
	ErrNilLookup = errors.New("analytics: nil lookup")
)

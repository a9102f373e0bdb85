package parser

import "errors"

var (
	// ErrNilCatalog is returned when the parser is constructed without a catalog.
	ErrNilCatalog = errors.New("parser: nil catalog")
	// ErrMalformedEntry is returned when a line does not have the shape KEY[d1,...,dn] value
	// or carries the wrong number of dimensions.
	ErrMalformedEntry = errors.New("parser: malformed entry")
	// ErrNumericCoercion is returned when a numeric column holds a non-numeric token.
	// It always aborts the table build.
	ErrNumericCoercion = errors.New("parser: numeric coercion failed")
	// ErrNonContiguousRun is returned in strict mode when a key appears in more
	// than one separated block.
	ErrNonContiguousRun = errors.New("parser: non-contiguous run")
)

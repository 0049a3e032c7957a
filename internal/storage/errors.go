package storage

import "errors"

// Sentinel errors the API layer maps onto its failure taxonomy.
var (
	// ErrNotFound is returned when a referenced clan or player id does
	// not resolve to a stored entity.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert collides with an existing
	// external id. Duplicate inserts are a normal, reportable outcome of
	// the import pipeline, not a failure.
	ErrDuplicate = errors.New("duplicate external id")

	// ErrConflict is returned when a unique name or tag is already taken.
	ErrConflict = errors.New("name or tag already exists")
)

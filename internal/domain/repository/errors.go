package repository

import "errors"

var (
	// ErrNotFound is returned when the referenced row does not exist (or is
	// excluded by the active-only filter on user reads).
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (email, slug, or the one-review-per-store-and-author rule).
	ErrDuplicate = errors.New("duplicate")
)

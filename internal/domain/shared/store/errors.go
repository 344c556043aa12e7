package store

import "errors"

// Errors describing the health of the underlying document store. Repository
// implementations translate driver failures into these so the rest of the
// system never depends on driver error types.
var (
	ErrTimeout     = errors.New("store: operation deadline exceeded")
	ErrUnavailable = errors.New("store: unavailable")
)

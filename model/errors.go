package model

import "errors"

// Sentinel errors shared between store drivers. Stores classify their driver
// failures into these; the domain services translate them into the typed
// errors surfaced to callers.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("store unavailable")
)

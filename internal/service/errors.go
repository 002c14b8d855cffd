package service

import "errors"

// Error classes for receipt operations. Handlers map these to HTTP
// status codes with errors.Is; everything else is treated as internal.
var (
	// ErrValidation rejects a request before any allocation or rendering.
	ErrValidation = errors.New("invalid receipt data")

	// ErrTemplate means the document could not be rendered. Fatal to the
	// operation; no row is persisted.
	ErrTemplate = errors.New("receipt document rendering failed")

	// ErrAllocation means no identifier could be issued. Fatal; the
	// enclosing transaction rolls back.
	ErrAllocation = errors.New("receipt identifier allocation failed")

	// ErrPersistence covers store failures after validation succeeded.
	ErrPersistence = errors.New("receipt persistence failed")

	// ErrNotFound reports an identifier absent from the expected set.
	ErrNotFound = errors.New("receipt not found")
)

package app

import "errors"

// Sentinel errors returned by the application layer. Inbound adapters map
// these to HTTP status codes; match with errors.Is.
var (
	// ErrNotFound indicates that a query matched no published items.
	ErrNotFound = errors.New("not found")

	// ErrNotReady indicates that no snapshot has been published yet.
	ErrNotReady = errors.New("no metadata published yet")

	// ErrInvalidQuery indicates a malformed query, such as an empty term.
	ErrInvalidQuery = errors.New("invalid query")
)

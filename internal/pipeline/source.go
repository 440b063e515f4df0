package pipeline

import (
	"context"
	"io"
)

// Source produces a fresh item collection, typically by fetching and parsing
// an external document. Sources are the fetch side of the aggregator; a
// fetch or parse failure is fatal for the source and surfaces as an error.
type Source[T any] interface {
	// ID returns the source's component identifier.
	ID() string

	// Execute fetches and returns a new collection. The caller owns the
	// returned items.
	Execute(ctx context.Context) ([]*Item[T], error)
}

// Serializer writes an item collection to a writer in some concrete
// representation.
type Serializer[T any] interface {
	Serialize(w io.Writer, items []*Item[T]) error
}

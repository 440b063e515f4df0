package ports

import (
	"context"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
)

// MetadataService defines the service port for querying published metadata.
// Implemented by the application layer; called by inbound adapters (handlers).
type MetadataService interface {
	// Query returns copies of the published items matching every term.
	// Terms match against item identifiers and tags. An empty term list
	// returns the whole published collection.
	//
	// Returns app.ErrNotReady before the first successful refresh, and
	// app.ErrNotFound when a non-empty term list matches nothing.
	Query(ctx context.Context, terms []string) ([]*dom.Item, error)
}

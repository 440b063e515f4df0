package saml

import (
	"context"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// NewItemIDPopulationStage builds a stage adding each EntityDescriptor
// item's entityID as ItemID metadata, making the entity addressable in
// queries and deduplicatable in merges. An EntityDescriptor without an
// entityID is an advisory finding; items wrapping other elements pass
// through untouched.
func NewItemIDPopulationStage(id string) pipeline.Stage[*etree.Element] {
	return pipeline.NewIterating(id, func(_ context.Context, item *dom.Item) error {
		root := item.Unwrap()
		if !IsEntityDescriptor(root) {
			return nil
		}
		entityID := root.SelectAttrValue(attrEntityID, "")
		if entityID == "" {
			item.Metadata().Add(pipeline.ErrorStatus{
				Component: id,
				Message:   "EntityDescriptor has no entityID attribute",
			})
			return nil
		}
		item.Metadata().Add(pipeline.ItemID{ID: entityID})
		return nil
	})
}

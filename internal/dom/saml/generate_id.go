package saml

import (
	"context"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// NewGenerateIDStage builds a stage setting a fresh ID attribute on every
// item's root element. The value is a type-4 UUID prefixed with an
// underscore; xsd:ID values must not start with a digit.
func NewGenerateIDStage(id string) pipeline.Stage[*etree.Element] {
	return pipeline.NewIterating(id, func(_ context.Context, item *dom.Item) error {
		item.Unwrap().CreateAttr("ID", "_"+uuid.NewString())
		return nil
	})
}

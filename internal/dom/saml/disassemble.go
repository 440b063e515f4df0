package saml

import (
	"context"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// NewDisassemblerStage builds a stage replacing the collection with one item
// per EntityDescriptor found in it. EntitiesDescriptor aggregates are
// descended recursively. The new items start with empty metadata; items
// wrapping anything other than SAML metadata are dropped with a debug log.
func NewDisassemblerStage(id string, log *slog.Logger) pipeline.Stage[*etree.Element] {
	if log == nil {
		log = slog.Default()
	}
	return pipeline.NewStage(id, func(ctx context.Context, items *[]*dom.Item) error {
		var split []*dom.Item
		for _, item := range *items {
			root := item.Unwrap()
			switch {
			case IsEntityDescriptor(root):
				split = append(split, dom.NewItem(root))
			case IsEntitiesDescriptor(root):
				collectEntities(root, &split)
			default:
				log.DebugContext(ctx, "dropping non-SAML document",
					slog.String("stage", id),
					slog.String("element", root.FullTag()),
				)
			}
		}
		*items = split
		return nil
	})
}

func collectEntities(el *etree.Element, out *[]*dom.Item) {
	for _, child := range el.ChildElements() {
		switch {
		case IsEntityDescriptor(child):
			*out = append(*out, dom.NewItem(child))
		case IsEntitiesDescriptor(child):
			collectEntities(child, out)
		}
	}
}

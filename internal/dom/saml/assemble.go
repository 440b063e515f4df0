package saml

import (
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// AssemblerOption configures the assembler stage.
type AssemblerOption func(*assembler)

// WithDescriptorName sets the Name attribute on the assembled
// EntitiesDescriptor.
func WithDescriptorName(name string) AssemblerOption {
	return func(a *assembler) { a.name = name }
}

// WithAssemblerOrdering orders the items before assembly.
func WithAssemblerOrdering(strategy pipeline.OrderingStrategy[*etree.Element]) AssemblerOption {
	return func(a *assembler) { a.ordering = strategy }
}

// WithEmptyCollectionAllowed makes an empty input collection produce an
// empty EntitiesDescriptor instead of an error.
func WithEmptyCollectionAllowed() AssemblerOption {
	return func(a *assembler) { a.allowEmpty = true }
}

type assembler struct {
	name       string
	ordering   pipeline.OrderingStrategy[*etree.Element]
	allowEmpty bool
}

// NewAssemblerStage builds a stage replacing the collection with a single
// item wrapping an EntitiesDescriptor containing every input item's element.
// By default an empty input collection is a fatal error; nothing useful can
// be published from it.
func NewAssemblerStage(id string, opts ...AssemblerOption) pipeline.Stage[*etree.Element] {
	a := &assembler{}
	for _, opt := range opts {
		opt(a)
	}
	return pipeline.NewStage(id, func(_ context.Context, items *[]*dom.Item) error {
		if len(*items) == 0 && !a.allowEmpty {
			return fmt.Errorf("no items to assemble")
		}
		*items = []*dom.Item{dom.NewItem(Assemble(*items, a.name, a.ordering))}
		return nil
	})
}

// Assemble builds an EntitiesDescriptor element wrapping copies of the
// items' elements. The caller owns the returned tree.
func Assemble(items []*dom.Item, name string, ordering pipeline.OrderingStrategy[*etree.Element]) *etree.Element {
	if ordering != nil {
		items = ordering.Order(items)
	}
	root := etree.NewElement("EntitiesDescriptor")
	root.Space = "md"
	root.CreateAttr("xmlns:md", MetadataNamespace)
	if name != "" {
		root.CreateAttr("Name", name)
	}
	for _, item := range items {
		root.AddChild(dom.CopyElement(item.Unwrap()))
	}
	return root
}

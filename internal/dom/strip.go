package dom

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

func removeFromParent(el *etree.Element) {
	if parent := el.Parent(); parent != nil {
		parent.RemoveChild(el)
	}
}

// NewElementStrippingStage builds a stage removing every occurrence of the
// named element from every item's tree. The root element is never removed.
func NewElementStrippingStage(id, namespaceURI, name string) pipeline.Stage[*etree.Element] {
	return NewTraversalStage(id, Visitor{
		Applicable: func(el *etree.Element) bool {
			return el.Tag == name && el.NamespaceURI() == namespaceURI
		},
		Visit: func(el *etree.Element, _ *TraversalContext) error {
			removeFromParent(el)
			return nil
		},
	})
}

// NewElementsStrippingStage builds a stage removing elements in the given
// namespace by name. In blacklist mode (keepListed false) the named elements
// are removed; in whitelist mode every element in the namespace except the
// named ones is removed. Roots are never removed.
func NewElementsStrippingStage(id, namespaceURI string, names []string, keepListed bool) pipeline.Stage[*etree.Element] {
	listed := make(map[string]struct{}, len(names))
	for _, n := range names {
		listed[n] = struct{}{}
	}
	return NewTraversalStage(id, Visitor{
		Applicable: func(el *etree.Element) bool {
			if el.NamespaceURI() != namespaceURI {
				return false
			}
			_, ok := listed[el.Tag]
			return ok != keepListed
		},
		Visit: func(el *etree.Element, _ *TraversalContext) error {
			removeFromParent(el)
			return nil
		},
	})
}

// NewNamespaceStrippingStage builds a stage removing every element in the
// given namespace, along with every attribute in it on surviving elements.
func NewNamespaceStrippingStage(id, namespaceURI string) pipeline.Stage[*etree.Element] {
	return NewTraversalStage(id, Visitor{
		Visit: func(el *etree.Element, _ *TraversalContext) error {
			if el.NamespaceURI() == namespaceURI {
				removeFromParent(el)
				return nil
			}
			for _, attr := range append([]etree.Attr(nil), el.Attr...) {
				if attr.NamespaceURI() == namespaceURI {
					el.RemoveAttr(attr.FullKey())
				}
			}
			return nil
		},
	})
}

// NewEmptyContainerStrippingStage builds a stage removing the named container
// elements when they have no child elements. Children are visited before
// parents, so containers left empty by the removal of nested empty containers
// collapse in the same pass.
func NewEmptyContainerStrippingStage(id, namespaceURI string, names ...string) pipeline.Stage[*etree.Element] {
	listed := make(map[string]struct{}, len(names))
	for _, n := range names {
		listed[n] = struct{}{}
	}
	return NewTraversalStage(id, Visitor{
		Applicable: func(el *etree.Element) bool {
			if el.NamespaceURI() != namespaceURI {
				return false
			}
			_, ok := listed[el.Tag]
			return ok
		},
		Visit: func(el *etree.Element, _ *TraversalContext) error {
			if len(el.ChildElements()) == 0 {
				removeFromParent(el)
			}
			return nil
		},
	})
}

// NewXPathFilteringStage builds a filtering stage removing every item whose
// tree matches the given etree path expression. The expression uses etree
// path syntax; prefixes match the document's literal prefixes.
func NewXPathFilteringStage(id, path string) (pipeline.Stage[*etree.Element], error) {
	compiled, err := etree.CompilePath(path)
	if err != nil {
		return nil, fmt.Errorf("compiling path %q: %w", path, err)
	}
	return pipeline.NewFiltering(id, func(_ context.Context, item *Item) (bool, error) {
		return len(item.Unwrap().FindElementsPath(compiled)) == 0, nil
	}), nil
}

// NewWhitespaceTrimmingStage builds a stage trimming leading and trailing
// whitespace from element text and attribute values across every item.
func NewWhitespaceTrimmingStage(id string) pipeline.Stage[*etree.Element] {
	return NewTraversalStage(id, Visitor{
		Visit: func(el *etree.Element, _ *TraversalContext) error {
			if len(el.ChildElements()) == 0 {
				if text := el.Text(); text != strings.TrimSpace(text) {
					el.SetText(strings.TrimSpace(text))
				}
			}
			for _, attr := range el.Attr {
				if trimmed := strings.TrimSpace(attr.Value); trimmed != attr.Value {
					el.CreateAttr(attr.FullKey(), trimmed)
				}
			}
			return nil
		},
	})
}

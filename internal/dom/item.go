// Package dom implements XML document items and stages operating on them:
// sources parsing documents into element trees, traversal-based stripping and
// validation stages, and serialization back to XML.
package dom

import (
	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// Item is an item wrapping an XML element tree.
type Item = pipeline.Item[*etree.Element]

// CopyElement deep-copies an element into its own document, detaching it
// from whatever tree it came from. Namespace declarations in scope at the
// source element are redeclared on the copy so the detached tree stays
// self-contained.
func CopyElement(el *etree.Element) *etree.Element {
	if el == nil {
		panic("dom: nil element")
	}
	cp := el.Copy()
	declareInScopeNamespaces(cp, el)
	doc := etree.NewDocument()
	doc.SetRoot(cp)
	return cp
}

// declareInScopeNamespaces copies xmlns declarations visible at src onto cp,
// nearest declaration winning, without overriding declarations cp already
// carries.
func declareInScopeNamespaces(cp, src *etree.Element) {
	for e := src; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			switch {
			case a.Space == "xmlns":
				if cp.SelectAttr("xmlns:"+a.Key) == nil {
					cp.CreateAttr("xmlns:"+a.Key, a.Value)
				}
			case a.Space == "" && a.Key == "xmlns":
				if cp.SelectAttr("xmlns") == nil {
					cp.CreateAttr("xmlns", a.Value)
				}
			}
		}
	}
}

// NewItem wraps a copy of el in a fresh item. The item owns its tree; the
// caller's element is left untouched, and item copies deep-copy the tree.
// A nil element is a programming error and panics.
func NewItem(el *etree.Element) *Item {
	return pipeline.NewItem(CopyElement(el), CopyElement)
}

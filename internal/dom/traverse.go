package dom

import (
	"context"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// TraversalContext accompanies one traversal over one item's tree. Visitors
// use it to annotate the item, share scratch state, and register work to run
// after the whole tree has been visited.
type TraversalContext struct {
	// Item is the item whose tree is being traversed.
	Item *Item

	// Stash is scratch storage shared by all visits in this traversal.
	Stash map[string]any

	deferred []func() error
}

// Defer registers fn to run once the traversal of the tree is complete.
// Deferred functions run in registration order; the first error stops the
// rest and fails the traversal.
func (tc *TraversalContext) Defer(fn func() error) {
	tc.deferred = append(tc.deferred, fn)
}

// Visitor selects and processes elements during a traversal. Visit may
// mutate the visited element, including removing it from its parent.
type Visitor struct {
	// Applicable reports whether Visit should run for el. A nil
	// Applicable visits every element.
	Applicable func(el *etree.Element) bool

	// Visit processes one applicable element.
	Visit func(el *etree.Element, tc *TraversalContext) error
}

// Traverse walks the item's tree depth first, visiting children before their
// parent. The child list is snapshotted before descending, so a visitor may
// remove or reorder the children of the element it is called on without
// derailing the walk. Deferred functions registered on the context run after
// the walk.
func Traverse(item *Item, v Visitor) error {
	tc := &TraversalContext{Item: item, Stash: make(map[string]any)}
	if err := traverse(item.Unwrap(), v, tc); err != nil {
		return err
	}
	for _, fn := range tc.deferred {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func traverse(el *etree.Element, v Visitor, tc *TraversalContext) error {
	children := append([]*etree.Element(nil), el.ChildElements()...)
	for _, child := range children {
		if err := traverse(child, v, tc); err != nil {
			return err
		}
	}
	if v.Applicable == nil || v.Applicable(el) {
		if err := v.Visit(el, tc); err != nil {
			return err
		}
	}
	return nil
}

// NewTraversalStage builds an iterating stage traversing every item's tree
// with the given visitor.
func NewTraversalStage(id string, v Visitor) pipeline.Stage[*etree.Element] {
	return pipeline.NewIterating(id, func(_ context.Context, item *Item) error {
		return Traverse(item, v)
	})
}

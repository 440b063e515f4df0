package saml

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/dom"
	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// DefaultMaxValidityInterval is how far in the future a validUntil may lie
// before the validation stage rejects it.
const DefaultMaxValidityInterval = 7 * 24 * time.Hour

// NewSetValidUntilStage builds a stage stamping validUntil on every item's
// root descriptor, now plus lifetime. Items not wrapping SAML metadata get
// an ErrorStatus instead.
func NewSetValidUntilStage(id string, lifetime time.Duration) pipeline.Stage[*etree.Element] {
	return pipeline.NewIterating(id, func(_ context.Context, item *dom.Item) error {
		root := item.Unwrap()
		if !IsEntityDescriptor(root) && !IsEntitiesDescriptor(root) {
			item.Metadata().Add(pipeline.ErrorStatus{
				Component: id,
				Message:   fmt.Sprintf("cannot set validUntil on %s", root.FullTag()),
			})
			return nil
		}
		root.CreateAttr(attrValidUntil, formatDateTime(time.Now().Add(lifetime)))
		return nil
	})
}

// NewPullUpValidUntilStage builds a stage hoisting the earliest validUntil
// found anywhere in each item's tree onto the root descriptor, stripping the
// attribute from all descendants. An unparseable descendant validUntil is an
// advisory finding on the item.
func NewPullUpValidUntilStage(id string) pipeline.Stage[*etree.Element] {
	return pipeline.NewIterating(id, func(_ context.Context, item *dom.Item) error {
		root := item.Unwrap()
		var earliest time.Time

		err := dom.Traverse(item, dom.Visitor{
			Applicable: func(el *etree.Element) bool {
				return (IsEntityDescriptor(el) || IsEntitiesDescriptor(el)) &&
					el.SelectAttr(attrValidUntil) != nil
			},
			Visit: func(el *etree.Element, tc *dom.TraversalContext) error {
				value := el.SelectAttrValue(attrValidUntil, "")
				t, perr := parseDateTime(value)
				if perr != nil {
					tc.Item.Metadata().Add(pipeline.ErrorStatus{
						Component: id,
						Message:   fmt.Sprintf("unparseable validUntil %q", value),
					})
					return nil
				}
				if earliest.IsZero() || t.Before(earliest) {
					earliest = t
				}
				if el != root {
					el.RemoveAttr(attrValidUntil)
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		if !earliest.IsZero() {
			root.CreateAttr(attrValidUntil, formatDateTime(earliest))
		}
		return nil
	})
}

// NewValidateValidUntilStage builds a stage checking each item's root
// validUntil attribute: present when required, parseable, in the future, and
// no further away than maxInterval (zero disables the distance check).
// Failures are advisory ErrorStatus findings; the item is kept for later
// stages to report or drop.
func NewValidateValidUntilStage(id string, required bool, maxInterval time.Duration) pipeline.Stage[*etree.Element] {
	return pipeline.NewIterating(id, func(_ context.Context, item *dom.Item) error {
		addError := func(format string, args ...any) {
			item.Metadata().Add(pipeline.ErrorStatus{
				Component: id,
				Message:   fmt.Sprintf(format, args...),
			})
		}

		attr := item.Unwrap().SelectAttr(attrValidUntil)
		if attr == nil {
			if required {
				addError("no validUntil attribute present")
			}
			return nil
		}

		until, err := parseDateTime(attr.Value)
		if err != nil {
			addError("unparseable validUntil %q", attr.Value)
			return nil
		}

		remaining := time.Until(until)
		if remaining <= 0 {
			addError("validUntil %s is in the past", attr.Value)
			return nil
		}
		if maxInterval > 0 && remaining > maxInterval {
			addError("validUntil %s is more than %s in the future", attr.Value, maxInterval)
		}
		return nil
	})
}

package pipeline

import "fmt"

// IdentificationStrategy derives a human-readable identifier for an item,
// for use in logs and termination errors.
type IdentificationStrategy[T any] interface {
	Identify(item *Item[T]) string
}

// FirstItemID identifies an item by its first ItemID entry, falling back to
// a fixed label for items without one. When Extra returns a non-empty
// display name the identifier is formatted as "basic (extra)".
type FirstItemID[T any] struct {
	// NoItemID is the fallback label; "unidentified" when empty.
	NoItemID string

	// Extra optionally derives a secondary display identifier.
	Extra func(item *Item[T]) string
}

// Identify implements IdentificationStrategy.
func (s FirstItemID[T]) Identify(item *Item[T]) string {
	basic := s.NoItemID
	if basic == "" {
		basic = "unidentified"
	}
	if ids := MetadataOf[ItemID](item.Metadata()); len(ids) > 0 {
		basic = ids[0].ID
	}
	if s.Extra != nil {
		if extra := s.Extra(item); extra != "" && extra != basic {
			return fmt.Sprintf("%s (%s)", basic, extra)
		}
	}
	return basic
}

// Package pipeline implements the processing core of the aggregator: items
// wrapping typed values with metadata annotations, stages operating over item
// collections, and pipelines running stages in order.
package pipeline

// Item wraps a value of type T moving through a pipeline together with its
// metadata annotations. The wrapped value is owned by the item; sharing a
// mutable value between items is a bug, which is why Copy takes a deep copy
// of the value while sharing the (immutable) metadata entries.
type Item[T any] struct {
	value     T
	copyValue func(T) T
	metadata  *MetadataMap
}

// NewItem wraps value in a fresh item with empty metadata. copyValue produces
// a deep copy of the wrapped value and is used by Copy; pass nil for
// value-like or immutable types, in which case the value is reused as is.
func NewItem[T any](value T, copyValue func(T) T) *Item[T] {
	return &Item[T]{
		value:     value,
		copyValue: copyValue,
		metadata:  NewMetadataMap(),
	}
}

// Unwrap returns the wrapped value.
func (i *Item[T]) Unwrap() T {
	return i.value
}

// Metadata returns the item's metadata map. The map is mutable; entries in it
// are not.
func (i *Item[T]) Metadata() *MetadataMap {
	return i.metadata
}

// Copy returns a new item wrapping a deep copy of the value. The metadata
// entries are shared by reference in a new map, so later annotations on
// either item do not show up on the other.
func (i *Item[T]) Copy() *Item[T] {
	value := i.value
	if i.copyValue != nil {
		value = i.copyValue(i.value)
	}
	cp := NewItem(value, i.copyValue)
	for _, k := range i.metadata.Kinds() {
		cp.metadata.AddAll(i.metadata.Get(k)...)
	}
	return cp
}

// Annotated is the write surface validators and stages need on an item when
// the wrapped type is irrelevant.
type Annotated interface {
	Metadata() *MetadataMap
}

// ErrorsOf returns all ErrorStatus entries on an item.
func ErrorsOf(a Annotated) []ErrorStatus {
	return MetadataOf[ErrorStatus](a.Metadata())
}

// WarningsOf returns all WarningStatus entries on an item.
func WarningsOf(a Annotated) []WarningStatus {
	return MetadataOf[WarningStatus](a.Metadata())
}

// HasErrors reports whether an item carries at least one ErrorStatus.
func HasErrors(a Annotated) bool {
	return a.Metadata().Has(KindErrorStatus)
}

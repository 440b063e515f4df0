package pipeline

import "context"

// OrderingStrategy returns a reordered copy of an item collection.
type OrderingStrategy[T any] interface {
	Order(items []*Item[T]) []*Item[T]
}

// NewItemOrderingStage builds a stage that replaces the collection with the
// strategy's ordering of it.
func NewItemOrderingStage[T any](id string, strategy OrderingStrategy[T]) Stage[T] {
	return NewStage(id, func(_ context.Context, items *[]*Item[T]) error {
		*items = strategy.Order(*items)
		return nil
	})
}

package pipeline

import (
	"context"
	"time"
)

// Stage transforms an item collection in place. Implementations may mutate
// items, add or remove items, and reorder the slice. A stage must not retain
// the slice or the items beyond the Execute call.
//
// Fatal problems are returned as errors; problems scoped to a single item are
// recorded as status metadata on that item instead.
type Stage[T any] interface {
	// ID returns the stage's component identifier, used in status
	// metadata, logs and errors.
	ID() string

	// Execute processes the collection. The pointer lets stages replace
	// the slice wholesale (splitting or assembling items).
	Execute(ctx context.Context, items *[]*Item[T]) error
}

type stageFunc[T any] struct {
	id string
	fn func(ctx context.Context, items *[]*Item[T]) error
}

func (s *stageFunc[T]) ID() string { return s.id }

func (s *stageFunc[T]) Execute(ctx context.Context, items *[]*Item[T]) error {
	start := time.Now()
	if err := s.fn(ctx, items); err != nil {
		return err
	}
	stampComponentInfo(*items, s.id, start)
	return nil
}

// stampComponentInfo records on every surviving item that the named component
// processed it. Called after a successful Execute only.
func stampComponentInfo[T any](items []*Item[T], component string, start time.Time) {
	complete := time.Now()
	for _, item := range items {
		item.Metadata().Add(ComponentInfo{
			Component: component,
			Start:     start,
			Complete:  complete,
		})
	}
}

// NewStage builds a stage from a whole-collection function. Every stage in
// this package and its consumers is built through NewStage (directly or via
// NewIterating/NewFiltering), which is what guarantees the ComponentInfo
// stamping contract. Panics if id is empty; stage identifiers are programmer
// supplied, not user input.
func NewStage[T any](id string, fn func(ctx context.Context, items *[]*Item[T]) error) Stage[T] {
	if id == "" {
		panic("pipeline: stage id must not be empty")
	}
	return &stageFunc[T]{id: id, fn: fn}
}

// NewIterating builds a stage applying fn to each item in order. An error
// from fn aborts the run; per-item problems should be recorded as status
// metadata and nil returned.
func NewIterating[T any](id string, fn func(ctx context.Context, item *Item[T]) error) Stage[T] {
	return NewStage(id, func(ctx context.Context, items *[]*Item[T]) error {
		for _, item := range *items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// NewFiltering builds a stage that keeps only the items for which keep
// returns true, preserving order. Removal compacts the slice in place.
func NewFiltering[T any](id string, keep func(ctx context.Context, item *Item[T]) (bool, error)) Stage[T] {
	return NewStage(id, func(ctx context.Context, items *[]*Item[T]) error {
		kept := (*items)[:0]
		for _, item := range *items {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := keep(ctx, item)
			if err != nil {
				return err
			}
			if ok {
				kept = append(kept, item)
			}
		}
		// Release dropped tail references.
		for i := len(kept); i < len(*items); i++ {
			(*items)[i] = nil
		}
		*items = kept
		return nil
	})
}

package pipeline

import "context"

// NewStaticSourceStage builds a stage that appends copies of a fixed item
// collection on every execution. Copies keep the configured items pristine
// across runs.
func NewStaticSourceStage[T any](id string, source []*Item[T]) Stage[T] {
	configured := append([]*Item[T](nil), source...)
	return NewStage(id, func(_ context.Context, items *[]*Item[T]) error {
		for _, item := range configured {
			*items = append(*items, item.Copy())
		}
		return nil
	})
}

type staticSource[T any] struct {
	id    string
	items []*Item[T]
}

func (s *staticSource[T]) ID() string { return s.id }

func (s *staticSource[T]) Execute(context.Context) ([]*Item[T], error) {
	out := make([]*Item[T], 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.Copy())
	}
	return out, nil
}

// NewStaticSource builds a Source producing copies of a fixed collection.
// Useful for tests and for inlining bootstrap documents into configuration.
func NewStaticSource[T any](id string, items []*Item[T]) Source[T] {
	return &staticSource[T]{id: id, items: append([]*Item[T](nil), items...)}
}

package pipeline

import "context"

// NewCompositeStage builds a stage that runs a fixed list of child stages in
// order as a single unit. The composite's own ComponentInfo is stamped in
// addition to each child's.
func NewCompositeStage[T any](id string, stages ...Stage[T]) Stage[T] {
	children := append([]Stage[T](nil), stages...)
	return NewStage(id, func(ctx context.Context, items *[]*Item[T]) error {
		for _, s := range children {
			if err := s.Execute(ctx, items); err != nil {
				return err
			}
		}
		return nil
	})
}

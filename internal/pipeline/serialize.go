package pipeline

import (
	"context"
	"fmt"
	"io"
)

// NewSerializationStage builds a stage that writes the current collection to
// w using the given serializer. The collection itself is left untouched, so
// the stage can sit in the middle of a pipeline to snapshot intermediate
// results.
func NewSerializationStage[T any](id string, w io.Writer, s Serializer[T]) Stage[T] {
	return NewStage(id, func(_ context.Context, items *[]*Item[T]) error {
		if err := s.Serialize(w, *items); err != nil {
			return fmt.Errorf("serializing items: %w", err)
		}
		return nil
	})
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// NewMetadataFilterStage builds a filtering stage that removes every item
// carrying at least one metadata entry of any designated kind. The usual use
// is dropping items marked with an ErrorStatus before publication.
func NewMetadataFilterStage[T any](id string, kinds ...Kind) Stage[T] {
	selected := append([]Kind(nil), kinds...)
	return NewFiltering(id, func(_ context.Context, item *Item[T]) (bool, error) {
		for _, k := range selected {
			if item.Metadata().Has(k) {
				return false, nil
			}
		}
		return true, nil
	})
}

// NewMetadataTerminationStage builds a stage that aborts the pipeline when
// any item carries a metadata entry of a designated kind. The error wraps
// ErrTermination and names the offending items through ident.
func NewMetadataTerminationStage[T any](id string, ident IdentificationStrategy[T], kinds ...Kind) Stage[T] {
	selected := append([]Kind(nil), kinds...)
	return NewStage(id, func(_ context.Context, items *[]*Item[T]) error {
		var offending []string
		for _, item := range *items {
			for _, k := range selected {
				if item.Metadata().Has(k) {
					offending = append(offending, ident.Identify(item))
					break
				}
			}
		}
		if len(offending) == 0 {
			return nil
		}
		return fmt.Errorf("%w: %d item(s) with designated status: %s",
			ErrTermination, len(offending), strings.Join(offending, ", "))
	})
}

// NewStatusLoggingStage builds a stage that logs every status metadata entry
// on every item: ErrorStatus at error level, WarningStatus at warn,
// InfoStatus at info. Items are named through ident.
func NewStatusLoggingStage[T any](id string, log *slog.Logger, ident IdentificationStrategy[T]) Stage[T] {
	return NewIterating(id, func(ctx context.Context, item *Item[T]) error {
		name := ident.Identify(item)
		for _, st := range MetadataOf[ErrorStatus](item.Metadata()) {
			log.ErrorContext(ctx, "item error status",
				slog.String("item", name),
				slog.String("component", st.Component),
				slog.String("message", st.Message),
			)
		}
		for _, st := range WarningsOf(item) {
			log.WarnContext(ctx, "item warning status",
				slog.String("item", name),
				slog.String("component", st.Component),
				slog.String("message", st.Message),
			)
		}
		for _, st := range MetadataOf[InfoStatus](item.Metadata()) {
			log.InfoContext(ctx, "item info status",
				slog.String("item", name),
				slog.String("component", st.Component),
				slog.String("message", st.Message),
			)
		}
		return nil
	})
}

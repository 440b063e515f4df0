package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Pipeline runs an ordered list of stages over one item collection. The
// stage list is fixed at construction. A pipeline may be executed any number
// of times, but a given collection must only be processed by one execution
// at a time; the pipeline itself holds no per-run state.
type Pipeline[T any] struct {
	id     string
	stages []Stage[T]
	log    *slog.Logger
}

// PipelineOption configures optional pipeline behavior.
type PipelineOption[T any] func(*Pipeline[T])

// WithPipelineLogger sets the logger used for per-stage progress records.
func WithPipelineLogger[T any](log *slog.Logger) PipelineOption[T] {
	return func(p *Pipeline[T]) { p.log = log }
}

// NewPipeline creates a pipeline with the given stages. An empty stage list
// is valid (the pipeline is then a no-op apart from its own ComponentInfo
// stamp). The id must be non-empty.
func NewPipeline[T any](id string, stages []Stage[T], opts ...PipelineOption[T]) (*Pipeline[T], error) {
	if id == "" {
		return nil, fmt.Errorf("pipeline id must not be empty")
	}
	p := &Pipeline[T]{
		id:     id,
		stages: append([]Stage[T](nil), stages...),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ID returns the pipeline's component identifier.
func (p *Pipeline[T]) ID() string { return p.id }

// Execute runs every stage in order over the collection. The first stage
// error aborts the run; completed stages are not rolled back, so the
// collection may be left partially processed. On success each item carries a
// ComponentInfo for every stage that touched it plus one for the pipeline.
func (p *Pipeline[T]) Execute(ctx context.Context, items *[]*Item[T]) error {
	start := time.Now()
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline %s: %w", p.id, err)
		}
		stageStart := time.Now()
		if err := s.Execute(ctx, items); err != nil {
			return fmt.Errorf("pipeline %s: %w: %s: %w", p.id, ErrStage, s.ID(), err)
		}
		p.log.DebugContext(ctx, "stage complete",
			slog.String("pipeline", p.id),
			slog.String("stage", s.ID()),
			slog.Int("items", len(*items)),
			slog.Duration("duration", time.Since(stageStart)),
		)
	}
	stampComponentInfo(*items, p.id, start)
	return nil
}

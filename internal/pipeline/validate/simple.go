package validate

import (
	"context"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// RejectAll rejects every value it sees: it records an ErrorStatus built
// from the message template and stops the sequence. Place it at the end of
// a sequence to turn "no earlier validator accepted this" into a rejection.
type RejectAll[V any] struct {
	Base
}

// NewRejectAll creates a RejectAll validator.
func NewRejectAll[V any](id string, opts ...Option) (*RejectAll[V], error) {
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	return &RejectAll[V]{Base: base}, nil
}

// Validate implements Validator.
func (v *RejectAll[V]) Validate(_ context.Context, value V, item pipeline.Annotated, stageID string) (Action, error) {
	v.AddError(item, stageID, value)
	return Done, nil
}

// AcceptAll accepts every value it sees: no annotation, sequence stops.
type AcceptAll[V any] struct {
	Base
}

// NewAcceptAll creates an AcceptAll validator.
func NewAcceptAll[V any](id string, opts ...Option) (*AcceptAll[V], error) {
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	return &AcceptAll[V]{Base: base}, nil
}

// Validate implements Validator.
func (v *AcceptAll[V]) Validate(context.Context, V, pipeline.Annotated, string) (Action, error) {
	return Done, nil
}

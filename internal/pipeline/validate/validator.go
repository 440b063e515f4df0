// Package validate implements the value validation framework applied by
// validation stages: validators inspect a single extracted value (a string,
// a URL, a certificate) and record problems as status metadata on the item
// the value came from.
package validate

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// Action tells a validator sequence whether to keep evaluating the remaining
// validators for a value.
type Action int

const (
	// Continue hands the value to the next validator in the sequence.
	Continue Action = iota

	// Done stops processing the value; no further validators run.
	Done
)

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Validator checks one value of type V, annotating the owning item with
// status metadata as needed. Validation problems are item annotations, not
// errors; a returned error means the validator itself broke and aborts the
// enclosing stage.
//
// stageID is the identifier of the stage applying the validator and is
// composed into the component id of any recorded status.
type Validator[V any] interface {
	// ID returns the validator's component identifier.
	ID() string

	// Validate checks value, annotating item with any findings.
	Validate(ctx context.Context, value V, item pipeline.Annotated, stageID string) (Action, error)
}

// Sequence applies an ordered list of validators to a value, stopping at the
// first one returning Done. An empty sequence accepts everything and returns
// Continue.
type Sequence[V any] struct {
	Base
	validators []Validator[V]
}

// NewSequence creates a validator sequence.
func NewSequence[V any](id string, validators []Validator[V], opts ...Option) (*Sequence[V], error) {
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	return &Sequence[V]{
		Base:       base,
		validators: append([]Validator[V](nil), validators...),
	}, nil
}

// Validate implements Validator.
func (s *Sequence[V]) Validate(ctx context.Context, value V, item pipeline.Annotated, stageID string) (Action, error) {
	for _, v := range s.validators {
		action, err := v.Validate(ctx, value, item, stageID)
		if err != nil {
			return Done, fmt.Errorf("validator %s: %w", v.ID(), err)
		}
		if action == Done {
			return Done, nil
		}
	}
	return Continue, nil
}

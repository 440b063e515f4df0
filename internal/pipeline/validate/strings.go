package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// compileFull anchors expr so that matching means matching the whole value,
// not a substring of it.
func compileFull(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("compiling regular expression %q: %w", expr, err)
	}
	return re, nil
}

// RejectStringRegex rejects any string fully matched by its regular
// expression, recording an ErrorStatus and stopping the sequence.
type RejectStringRegex struct {
	Base
	re *regexp.Regexp
}

// NewRejectStringRegex creates a RejectStringRegex validator for expr. The
// expression must match the entire value to reject it.
func NewRejectStringRegex(id, expr string, opts ...Option) (*RejectStringRegex, error) {
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	re, err := compileFull(expr)
	if err != nil {
		return nil, err
	}
	return &RejectStringRegex{Base: base, re: re}, nil
}

// Validate implements Validator.
func (v *RejectStringRegex) Validate(_ context.Context, value string, item pipeline.Annotated, stageID string) (Action, error) {
	if v.re.MatchString(value) {
		v.AddError(item, stageID, value)
		return Done, nil
	}
	return Continue, nil
}

// AcceptStringRegex accepts any string fully matched by its regular
// expression, stopping the sequence without annotation. Unmatched values
// continue down the sequence.
type AcceptStringRegex struct {
	Base
	re *regexp.Regexp
}

// NewAcceptStringRegex creates an AcceptStringRegex validator for expr.
func NewAcceptStringRegex(id, expr string, opts ...Option) (*AcceptStringRegex, error) {
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	re, err := compileFull(expr)
	if err != nil {
		return nil, err
	}
	return &AcceptStringRegex{Base: base, re: re}, nil
}

// Validate implements Validator.
func (v *AcceptStringRegex) Validate(_ context.Context, value string, _ pipeline.Annotated, _ string) (Action, error) {
	if v.re.MatchString(value) {
		return Done, nil
	}
	return Continue, nil
}

// RejectStringEmpty rejects empty or whitespace-only strings.
type RejectStringEmpty struct {
	Base
}

// NewRejectStringEmpty creates a RejectStringEmpty validator.
func NewRejectStringEmpty(id string, opts ...Option) (*RejectStringEmpty, error) {
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	return &RejectStringEmpty{Base: base}, nil
}

// Validate implements Validator.
func (v *RejectStringEmpty) Validate(_ context.Context, value string, item pipeline.Annotated, stageID string) (Action, error) {
	if strings.TrimSpace(value) == "" {
		v.AddError(item, stageID, value)
		return Done, nil
	}
	return Continue, nil
}

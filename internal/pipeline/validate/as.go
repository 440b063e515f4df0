package validate

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/net/idna"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// As converts a value from type V to type A and applies nested validators to
// the converted form. Conversion failure is by default a rejection: an
// ErrorStatus is recorded against the original value and the sequence stops,
// with the nested validators never running. With WithOptionalConversion a
// failed conversion instead means "not my kind of value": the validator
// returns Continue without annotating the item.
type As[V, A any] struct {
	Base
	convert            func(V) (A, error)
	validators         []Validator[A]
	conversionRequired bool
}

// NewAs creates a converting validator.
func NewAs[V, A any](id string, convert func(V) (A, error), validators []Validator[A], opts ...Option) (*As[V, A], error) {
	if convert == nil {
		return nil, fmt.Errorf("conversion function must not be nil")
	}
	base, err := NewBase(id, opts...)
	if err != nil {
		return nil, err
	}
	s := applyOptions(opts)
	return &As[V, A]{
		Base:               base,
		convert:            convert,
		validators:         append([]Validator[A](nil), validators...),
		conversionRequired: s.conversionRequired,
	}, nil
}

// Validate implements Validator.
func (v *As[V, A]) Validate(ctx context.Context, value V, item pipeline.Annotated, stageID string) (Action, error) {
	converted, err := v.convert(value)
	if err != nil {
		if v.conversionRequired {
			v.AddError(item, stageID, value)
			return Done, nil
		}
		return Continue, nil
	}
	for _, nested := range v.validators {
		action, err := nested.Validate(ctx, converted, item, stageID)
		if err != nil {
			return Done, fmt.Errorf("validator %s: %w", nested.ID(), err)
		}
		if action == Done {
			return Done, nil
		}
	}
	return Continue, nil
}

// NewAsDomainName creates a validator converting a string to an ASCII
// (punycode) domain name under the IDNA lookup rules before applying the
// nested validators to the converted name. Values that are not well-formed
// domain names fail conversion.
func NewAsDomainName(id string, validators []Validator[string], opts ...Option) (*As[string, string], error) {
	return NewAs(id, func(value string) (string, error) {
		return idna.Lookup.ToASCII(value)
	}, validators, opts...)
}

// NewAsURL creates a validator parsing a string as an absolute URL before
// applying the nested validators to the parsed form.
func NewAsURL(id string, validators []Validator[*url.URL], opts ...Option) (*As[string, *url.URL], error) {
	return NewAs(id, func(value string) (*url.URL, error) {
		u, err := url.Parse(value)
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("not an absolute URL: %q", value)
		}
		return u, nil
	}, validators, opts...)
}

package validate

import (
	"fmt"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

// DefaultMessage is the message template applied to rejected values when a
// validator is not configured with its own. The single verb is filled with
// the rejected value.
const DefaultMessage = "value rejected: '%s'"

type settings struct {
	message            string
	conversionRequired bool
}

// Option configures optional validator behavior. Options not applicable to
// a given validator are ignored.
type Option func(*settings)

// WithMessage replaces the status message template. The template receives
// the offending value as its only argument.
func WithMessage(template string) Option {
	return func(s *settings) { s.message = template }
}

// WithOptionalConversion makes a converting validator treat conversion
// failure as "not applicable" rather than a rejection: the value passes
// through unannotated and its nested validators do not run.
func WithOptionalConversion() Option {
	return func(s *settings) { s.conversionRequired = false }
}

func applyOptions(opts []Option) settings {
	s := settings{message: DefaultMessage, conversionRequired: true}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Base carries the identity and message template shared by all validators
// in this package. Embed it and use the Add* helpers to record findings.
type Base struct {
	id      string
	message string
}

// NewBase creates the shared validator core. The id must be non-empty.
func NewBase(id string, opts ...Option) (Base, error) {
	if id == "" {
		return Base{}, fmt.Errorf("validator id must not be empty")
	}
	s := applyOptions(opts)
	return Base{id: id, message: s.message}, nil
}

// ID returns the validator's component identifier.
func (b Base) ID() string { return b.id }

// ComponentID composes the status component identifier from the applying
// stage and this validator, "stageID/validatorID". With no stage the
// validator stands alone.
func (b Base) ComponentID(stageID string) string {
	if stageID == "" {
		return b.id
	}
	return stageID + "/" + b.id
}

// AddError records an ErrorStatus for a rejected value, formatting the
// configured message template with it.
func (b Base) AddError(item pipeline.Annotated, stageID string, value any) {
	b.AddErrorMessage(item, stageID, fmt.Sprintf(b.message, value))
}

// AddErrorMessage records an ErrorStatus with a literal message.
func (b Base) AddErrorMessage(item pipeline.Annotated, stageID, message string) {
	item.Metadata().Add(pipeline.ErrorStatus{
		Component: b.ComponentID(stageID),
		Message:   message,
	})
}

// AddWarning records a WarningStatus for a value, formatting the configured
// message template with it.
func (b Base) AddWarning(item pipeline.Annotated, stageID string, value any) {
	b.AddWarningMessage(item, stageID, fmt.Sprintf(b.message, value))
}

// AddWarningMessage records a WarningStatus with a literal message.
func (b Base) AddWarningMessage(item pipeline.Annotated, stageID, message string) {
	item.Metadata().Add(pipeline.WarningStatus{
		Component: b.ComponentID(stageID),
		Message:   message,
	})
}

package pipeline

import "errors"

// Sentinel errors for pipeline execution. Fatal problems surface as returned
// errors wrapping one of these; per-item advisory problems are recorded as
// ErrorStatus or WarningStatus metadata instead and never abort a run.
var (
	// ErrStage wraps any error returned by a stage during pipeline
	// execution.
	ErrStage = errors.New("stage processing failed")

	// ErrTermination is returned when a termination stage finds items
	// carrying a designated status kind.
	ErrTermination = errors.New("item collection terminated")
)

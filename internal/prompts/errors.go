package prompts

import "errors"

// Domain errors for prompt composition.
var (
	ErrInvalidStage = errors.New("stage must be single-box, dual-box, two-part, goals, or blank-box")
)

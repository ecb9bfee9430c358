package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies which analysis prompt a section uses, named after the
// box layout it targets.
type Stage string

// Valid analysis stages.
const (
	StageSingleBox Stage = "single-box"
	StageDualBox   Stage = "dual-box"
	StageTwoPart   Stage = "two-part"
	StageGoals     Stage = "goals"
	StageBlankBox  Stage = "blank-box"
)

var stages = []Stage{
	StageSingleBox,
	StageDualBox,
	StageTwoPart,
	StageGoals,
	StageBlankBox,
}

// Stages returns the list of valid analysis stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known analysis stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}

// Package prompts composes the per-section analysis prompts sent to the
// vision model. Each prompt pairs tunable natural-language instructions
// with an immutable JSON response contract keyed by the section's box
// layout.
package prompts

import (
	"fmt"
	"strings"
)

// Compose builds the full analysis prompt for a stage. sectionTitle names
// the section under review; customInstructions, when non-empty, replaces
// the stage's default instructions while the response spec stays fixed.
func Compose(stage Stage, sectionTitle, customInstructions string) (string, error) {
	instr := customInstructions
	if instr == "" {
		var err error
		instr, err = Instructions(stage)
		if err != nil {
			return "", err
		}
	}
	spec, err := Spec(stage)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if sectionTitle != "" {
		fmt.Fprintf(&sb, "Section under review: %s\n\n", sectionTitle)
	}
	sb.WriteString(strings.TrimSpace(instr))
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(spec))
	return sb.String(), nil
}

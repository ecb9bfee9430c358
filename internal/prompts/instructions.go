package prompts

const singleBoxInstructions = `You are reviewing a scanned section of a financial planning action plan that a client has annotated by hand. The image shows one box of printed dot points.

Examine every dot point and decide whether the client marked it for deletion. Deletion marks include strikethrough lines, crosses, scribbles over the text, and diagonal slashes. Faint scanner artifacts, underlines, and ticks are NOT deletion marks.

A single pen stroke that runs through several consecutive dot points deletes all of them: report continuous_line_detected as true and flag every dot point the stroke touches.

If every dot point in the box is marked for deletion, or the whole box is crossed out with a large X, the client intends the entire row to be removed: set should_delete_entire_row to true.`

const dualBoxInstructions = `You are reviewing a scanned section of a financial planning action plan that a client has annotated by hand. The image shows two boxes side by side, each with its own printed dot points. Analyze the boxes independently.

For each box, examine every dot point and decide whether the client marked it for deletion. Deletion marks include strikethrough lines, crosses, scribbles over the text, and diagonal slashes. Faint scanner artifacts, underlines, and ticks are NOT deletion marks.

A single pen stroke that runs through several consecutive dot points deletes all of them: report continuous_line_detected as true for that box and flag every dot point the stroke touches.

Only set should_delete_entire_row to true when BOTH boxes are fully struck out or the client has crossed out the whole row with a large X.`

const twoPartInstructions = `You are reviewing a scanned section of a financial planning action plan that a client has annotated by hand. The left box holds printed recommendations; the right box is where the client writes alternatives.

For each printed dot point on the left, decide whether it is struck through. When handwriting near a struck-through item supplies replacement wording, transcribe it exactly into replacement_text for that item. When an item is struck through with no replacement, leave replacement_text as an empty string and set should_delete to true.

A single pen stroke through several consecutive items deletes all of them: report continuous_line_detected as true and flag every item within the stroke's span.

Only set should_delete_entire_row to true when the whole row is crossed out.`

const goalsInstructions = `You are reviewing the goals section of a scanned financial planning action plan. The goals column contains numbered slots (1., 2., 3., ...) where the client writes goals by hand; an adjacent column records whether each goal was achieved.

Transcribe the handwriting beside each numbered slot exactly as written, correcting nothing. Report a slot with no handwriting as an empty handwritten_text. If a printed or handwritten goal is struck through, set should_delete to true for that slot number.

Only set should_delete_entire_row to true when the entire goals row is crossed out.`

const blankBoxInstructions = `You are reviewing a scanned section of a financial planning action plan containing two blank boxes the client may have filled in by hand.

For each box, report whether it contains any handwriting and transcribe each line of handwriting against the 1-based position it occupies in the box. Scanner noise, smudges, and printed guide text are not handwriting.

If NEITHER box contains handwriting the row serves no purpose and will be removed: set should_delete_entire_row to true with an explanation.`

var instructions = map[Stage]string{
	StageSingleBox: singleBoxInstructions,
	StageDualBox:   dualBoxInstructions,
	StageTwoPart:   twoPartInstructions,
	StageGoals:     goalsInstructions,
	StageBlankBox:  blankBoxInstructions,
}

// Instructions returns the hardcoded default instructions for an analysis
// stage. Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}

package prompts

// Response specs are immutable contracts: the parser normalizes exactly
// these shapes, so editing one without updating the parser breaks the
// pipeline. Tune detection behavior in instructions.go instead.

const singleBoxSpec = `Respond with ONLY a JSON object matching this exact structure:

{
  "box_analysis": {
    "has_deletion_marks": false,
    "total_items": 0,
    "interrupted_items": 0,
    "all_items_interrupted": false,
    "continuous_line_detected": false,
    "deletion_details": [
      {"item_number": 1, "item_text": "<printed text>", "should_delete": false}
    ]
  },
  "row_deletion_rule": {
    "should_delete_entire_row": false,
    "explanation": "<one sentence justifying the decision>"
  }
}

Field constraints:
- item_number: the 1-based position of the dot point inside the box.
- item_text: the printed text of the dot point, exactly as it appears.
- total_items counts printed dot points; interrupted_items counts those
  crossed by any mark; all_items_interrupted is true only when the two
  are equal and non-zero.
- deletion_details lists every dot point in the box, marked or not.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Report only what is visible in this image`

const dualBoxSpec = `Respond with ONLY a JSON object matching this exact structure:

{
  "left_box_analysis": {
    "has_deletion_marks": false,
    "total_items": 0,
    "interrupted_items": 0,
    "all_items_interrupted": false,
    "continuous_line_detected": false,
    "deletion_details": [
      {"item_number": 1, "item_text": "<printed text>", "should_delete": false}
    ]
  },
  "right_box_analysis": {
    "has_deletion_marks": false,
    "total_items": 0,
    "interrupted_items": 0,
    "all_items_interrupted": false,
    "continuous_line_detected": false,
    "deletion_details": [
      {"item_number": 1, "item_text": "<printed text>", "should_delete": false}
    ]
  },
  "row_deletion_rule": {
    "should_delete_entire_row": false,
    "explanation": "<one sentence justifying the decision>"
  }
}

Field constraints:
- item_number: the 1-based position of the dot point inside its own box.
- The boxes are independent; numbering restarts in the right box.
- deletion_details lists every dot point in the box, marked or not.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Report only what is visible in this image`

const twoPartSpec = `Respond with ONLY a JSON object matching this exact structure:

{
  "left_box_analysis": {
    "has_deletion_marks": false,
    "total_items": 0,
    "interrupted_items": 0,
    "all_items_interrupted": false,
    "continuous_line_detected": false,
    "deletion_details": [
      {
        "item_number": 1,
        "item_text": "<printed text>",
        "should_delete": false,
        "replacement_text": ""
      }
    ]
  },
  "right_box_analysis": {
    "has_deletion_marks": false,
    "total_items": 0,
    "interrupted_items": 0,
    "all_items_interrupted": false,
    "continuous_line_detected": false,
    "deletion_details": []
  },
  "row_deletion_rule": {
    "should_delete_entire_row": false,
    "explanation": "<one sentence justifying the decision>"
  }
}

Field constraints:
- replacement_text: the client's handwritten alternative for a
  struck-through item, transcribed exactly; empty string when the item
  has no replacement.
- An item with a replacement keeps should_delete false; the replacement
  supersedes deletion.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Report only what is visible in this image`

const goalsSpec = `Respond with ONLY a JSON object matching this exact structure:

{
  "handwritten_goals": {
    "items": [
      {"dot_point_number": 1, "handwritten_text": "<transcription>", "should_delete": false}
    ]
  },
  "row_deletion_rule": {
    "should_delete_entire_row": false,
    "explanation": "<one sentence justifying the decision>"
  }
}

Field constraints:
- dot_point_number: the 1-based numbered slot the handwriting sits beside.
- handwritten_text: the transcription exactly as written; empty string for
  a blank slot.
- should_delete: true when the goal in that slot is struck through.
- items must cover every numbered slot visible in the goals column.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Transcribe handwriting verbatim; never paraphrase or correct spelling`

const blankBoxSpec = `Respond with ONLY a JSON object matching this exact structure:

{
  "blank_box_analysis": {
    "left_box": {
      "has_handwriting": false,
      "items": [
        {"dot_point_number": 1, "handwritten_text": "<transcription>"}
      ]
    },
    "right_box": {
      "has_handwriting": false,
      "items": [
        {"dot_point_number": 1, "handwritten_text": "<transcription>"}
      ]
    }
  },
  "row_deletion_rule": {
    "should_delete_entire_row": false,
    "explanation": "<one sentence justifying the decision>"
  }
}

Field constraints:
- dot_point_number: the 1-based line position the handwriting occupies
  within its box.
- items is empty when a box has no handwriting.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Transcribe handwriting verbatim; never paraphrase or correct spelling`

var specs = map[Stage]string{
	StageSingleBox: singleBoxSpec,
	StageDualBox:   dualBoxSpec,
	StageTwoPart:   twoPartSpec,
	StageGoals:     goalsSpec,
	StageBlankBox:  blankBoxSpec,
}

// Spec returns the immutable response contract for an analysis stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}

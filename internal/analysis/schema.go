package analysis

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema constrains the superset of fields the per-section prompts
// request. It is deliberately loose about extra fields; the model routinely
// adds commentary keys and normalization drops what it does not recognize.
const responseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "left_box_analysis": { "$ref": "#/$defs/box" },
    "right_box_analysis": { "$ref": "#/$defs/box" },
    "box_analysis": { "$ref": "#/$defs/box" },
    "blank_box_analysis": { "type": "object" },
    "handwritten_goals": {},
    "row_deletion_rule": {
      "type": "object",
      "properties": {
        "should_delete_entire_row": { "type": "boolean" },
        "explanation": { "type": "string" }
      }
    }
  },
  "$defs": {
    "box": {
      "type": "object",
      "properties": {
        "has_deletion_marks": { "type": "boolean" },
        "has_handwriting": { "type": "boolean" },
        "total_items": { "type": "integer", "minimum": 0 },
        "interrupted_items": { "type": "integer", "minimum": 0 },
        "all_items_interrupted": { "type": "boolean" },
        "continuous_line_detected": { "type": "boolean" },
        "deletion_details": { "$ref": "#/$defs/items" },
        "items": { "$ref": "#/$defs/items" }
      }
    },
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "item_number": { "type": "integer", "minimum": 1 },
          "dot_point_number": { "type": "integer", "minimum": 1 },
          "item_text": { "type": "string" },
          "should_delete": { "type": "boolean" },
          "replacement_text": { "type": "string" },
          "handwritten_text": { "type": "string" }
        }
      }
    }
  }
}`

// Validator checks decoded analysis objects against the response schema.
// Failures are advisory; the parser logs them and proceeds.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the built-in response schema.
func NewValidator() (*Validator, error) {
	schema, err := jsonschema.CompileString("analysis-response.json", responseSchema)
	if err != nil {
		return nil, fmt.Errorf("compile analysis response schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks one decoded object.
func (v *Validator) Validate(obj map[string]any) error {
	return v.schema.Validate(obj)
}

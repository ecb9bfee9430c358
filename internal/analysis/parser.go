package analysis

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Parser extracts a Record from raw model output. It is pure over its
// input: malformed content produces a default record with a diagnostic
// explanation, never an error.
type Parser struct {
	logger    *slog.Logger
	validator *Validator
}

// NewParser builds a Parser. validator may be nil to skip schema checks.
func NewParser(logger *slog.Logger, validator *Validator) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, validator: validator}
}

// Parse decodes raw model output into a Record. Extraction is attempted in
// order: fenced code block, balanced-brace span from the first '{' to its
// true matching terminator, then a line-by-line scan for a complete object.
// When every attempt fails the default record is returned with Explanation
// describing the failure.
func (p *Parser) Parse(raw string) *Record {
	for _, candidate := range p.candidates(raw) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
			p.logger.Debug("analysis parse candidate rejected", "error", err)
			continue
		}
		if p.validator != nil {
			if err := p.validator.Validate(obj); err != nil {
				p.logger.Warn("analysis response failed schema validation", "error", err)
			}
		}
		return FromObject(obj)
	}

	p.logger.Warn("analysis output contained no decodable object", "length", len(raw))
	return &Record{
		Explanation: fmt.Sprintf("no decodable JSON object in %d bytes of model output", len(raw)),
	}
}

// candidates yields decode attempts in priority order.
func (p *Parser) candidates(raw string) []string {
	var out []string
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		out = append(out, m[1])
	}
	if span, ok := balancedSpan(raw); ok {
		out = append(out, span)
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}") {
			out = append(out, line)
		}
	}
	return out
}

// balancedSpan returns the substring from the first '{' to its matching
// '}' with brace depth tracked through JSON string literals, so trailing
// prose containing braces never truncates the span.
func balancedSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// FromObject normalizes a decoded JSON object into a Record, tolerating
// the field-name variation the per-section prompts produce.
func FromObject(obj map[string]any) *Record {
	rec := &Record{Boxes: map[string]*Box{}, Source: obj}

	if b := parseBox(obj["left_box_analysis"]); b != nil {
		rec.Boxes[BoxLeft] = b
	}
	if b := parseBox(obj["right_box_analysis"]); b != nil {
		rec.Boxes[BoxRight] = b
	}
	if b := parseBox(obj["box_analysis"]); b != nil {
		rec.Boxes[BoxSingle] = b
	}

	if blank, ok := obj["blank_box_analysis"].(map[string]any); ok {
		if b := parseBox(blank["left_box"]); b != nil {
			rec.Boxes[BoxLeft] = b
		}
		if b := parseBox(blank["right_box"]); b != nil {
			rec.Boxes[BoxRight] = b
		}
		if rec.Boxes[BoxLeft] == nil && rec.Boxes[BoxRight] == nil {
			if b := parseBox(obj["blank_box_analysis"]); b != nil {
				rec.Boxes[BoxSingle] = b
			}
		}
	}

	if rd, ok := obj["row_deletion_rule"].(map[string]any); ok {
		rec.RowDeletion = RowDeletion{
			ShouldDeleteEntireRow: toBool(firstOf(rd, "should_delete_entire_row", "should_delete", "delete_entire_row")),
			Explanation:           toString(firstOf(rd, "explanation", "reason")),
		}
	}

	rec.Goals = parseGoals(obj["handwritten_goals"])

	if exp := toString(obj["explanation"]); exp != "" {
		rec.Explanation = exp
	}
	return rec
}

func parseBox(v any) *Box {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	b := &Box{
		HasDeletionMarks:       toBool(firstOf(m, "has_deletion_marks", "deletion_marks_detected")),
		HasHandwriting:         toBool(firstOf(m, "has_handwriting", "handwriting_detected")),
		TotalItems:             toInt(m["total_items"]),
		InterruptedItems:       toInt(m["interrupted_items"]),
		AllItemsInterrupted:    toBool(m["all_items_interrupted"]),
		ContinuousLineDetected: toBool(firstOf(m, "continuous_line_detected", "continuous_line")),
	}
	items := firstOf(m, "deletion_details", "items", "dot_points")
	b.Items = parseItems(items)
	return b
}

func parseGoals(v any) []Item {
	switch g := v.(type) {
	case map[string]any:
		return parseItems(firstOf(g, "items", "goals", "dot_points"))
	case []any:
		return parseItems(g)
	default:
		return nil
	}
}

func parseItems(v any) []Item {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var items []Item
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, Item{
			Number:          toInt(firstOf(m, "item_number", "dot_point_number", "number")),
			Text:            toString(firstOf(m, "item_text", "original_text", "text")),
			ShouldDelete:    toBool(firstOf(m, "should_delete", "delete")),
			ReplacementText: toString(firstOf(m, "replacement_text", "replacement")),
			HandwrittenText: toString(firstOf(m, "handwritten_text", "handwriting")),
		})
	}
	return items
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "1":
			return true
		}
	case float64:
		return b != 0
	}
	return false
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 0
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

package analysis_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/calebwren/redline/internal/analysis"
)

func newParser(t *testing.T) *analysis.Parser {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator, err := analysis.NewValidator()
	if err != nil {
		t.Fatalf("compile validator: %v", err)
	}
	return analysis.NewParser(logger, validator)
}

const dualBoxJSON = `{
  "left_box_analysis": {
    "has_deletion_marks": true,
    "total_items": 3,
    "interrupted_items": 2,
    "all_items_interrupted": false,
    "continuous_line_detected": false,
    "deletion_details": [
      {"item_number": 1, "item_text": "Review your insurance cover", "should_delete": true},
      {"item_number": 3, "item_text": "Update your will", "should_delete": true}
    ]
  },
  "right_box_analysis": {
    "has_deletion_marks": false,
    "total_items": 2,
    "interrupted_items": 0,
    "all_items_interrupted": false,
    "continuous_line_detected": false,
    "deletion_details": []
  },
  "row_deletion_rule": {
    "should_delete_entire_row": false,
    "explanation": "right box untouched"
  }
}`

func TestParse(t *testing.T) {
	p := newParser(t)

	t.Run("fenced block", func(t *testing.T) {
		raw := "Here is my analysis of the marked section.\n```json\n" + dualBoxJSON + "\n```\nLet me know if you need more."
		rec := p.Parse(raw)
		left := rec.Boxes[analysis.BoxLeft]
		if left == nil {
			t.Fatal("left box missing")
		}
		if !left.HasDeletionMarks || left.TotalItems != 3 || len(left.Items) != 2 {
			t.Errorf("left box: %+v", left)
		}
		if left.Items[1].Number != 3 || !left.Items[1].ShouldDelete {
			t.Errorf("item: %+v", left.Items[1])
		}
		if rec.RowDeletion.ShouldDeleteEntireRow {
			t.Error("row deletion should be false")
		}
	})

	t.Run("fenced block equals direct decode", func(t *testing.T) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(dualBoxJSON), &obj); err != nil {
			t.Fatal(err)
		}
		direct := analysis.FromObject(obj)
		viaParse := p.Parse("```json\n" + dualBoxJSON + "\n```")
		direct.Source = nil
		viaParse.Source = nil
		if !reflect.DeepEqual(direct, viaParse) {
			t.Errorf("records differ:\ndirect: %+v\nparsed: %+v", direct, viaParse)
		}
	})

	t.Run("embedded object with trailing prose braces", func(t *testing.T) {
		raw := `The object is {"box_analysis": {"has_deletion_marks": true, "total_items": 1, "deletion_details": [{"item_number": 1, "item_text": "pay off debt", "should_delete": true}]}} and note that {braces} appear later in this sentence.`
		rec := p.Parse(raw)
		box := rec.Boxes[analysis.BoxSingle]
		if box == nil {
			t.Fatal("single box missing")
		}
		if len(box.Items) != 1 || box.Items[0].Text != "pay off debt" {
			t.Errorf("items: %+v", box.Items)
		}
	})

	t.Run("braces inside string literals", func(t *testing.T) {
		raw := `{"box_analysis": {"has_deletion_marks": false, "deletion_details": [{"item_number": 1, "item_text": "budget {monthly}", "should_delete": false}]}}`
		rec := p.Parse(raw)
		box := rec.Boxes[analysis.BoxSingle]
		if box == nil {
			t.Fatal("single box missing")
		}
		if box.Items[0].Text != "budget {monthly}" {
			t.Errorf("got %q", box.Items[0].Text)
		}
	})

	t.Run("line by line fallback", func(t *testing.T) {
		raw := "analysis follows\nnot json {\n" +
			`{"row_deletion_rule": {"should_delete_entire_row": true, "explanation": "entire row struck through"}}` +
			"\ndone"
		rec := p.Parse(raw)
		if !rec.RowDeletion.ShouldDeleteEntireRow {
			t.Errorf("row deletion not detected: %+v", rec)
		}
		if rec.RowDeletion.Explanation != "entire row struck through" {
			t.Errorf("explanation: %q", rec.RowDeletion.Explanation)
		}
	})

	t.Run("unparsable input yields default record", func(t *testing.T) {
		rec := p.Parse("I could not read the handwriting in this image.")
		if !rec.Empty() {
			t.Error("default record should be empty")
		}
		if rec.Explanation == "" {
			t.Error("default record should carry a diagnostic explanation")
		}
		if rec.Source != nil {
			t.Error("default record should have no source object")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if rec := p.Parse(""); !rec.Empty() {
			t.Error("expected empty record")
		}
	})
}

func TestFieldAliases(t *testing.T) {
	p := newParser(t)

	t.Run("dot_point_number and handwritten goals", func(t *testing.T) {
		raw := `{"handwritten_goals": {"items": [
			{"dot_point_number": 2, "handwritten_text": "Retire at 60"},
			{"dot_point_number": 4, "handwritten_text": ""}
		]}}`
		rec := p.Parse(raw)
		if len(rec.Goals) != 2 {
			t.Fatalf("goals: %+v", rec.Goals)
		}
		if rec.Goals[0].Number != 2 || rec.Goals[0].HandwrittenText != "Retire at 60" {
			t.Errorf("goal: %+v", rec.Goals[0])
		}
	})

	t.Run("handwritten_goals as bare array", func(t *testing.T) {
		raw := `{"handwritten_goals": [{"dot_point_number": 1, "handwritten_text": "Build emergency fund"}]}`
		rec := p.Parse(raw)
		if len(rec.Goals) != 1 || rec.Goals[0].Number != 1 {
			t.Errorf("goals: %+v", rec.Goals)
		}
	})

	t.Run("blank_box_analysis with nested boxes", func(t *testing.T) {
		raw := `{"blank_box_analysis": {
			"left_box": {"has_handwriting": true, "items": [{"dot_point_number": 1, "handwritten_text": "Salary sacrifice"}]},
			"right_box": {"has_handwriting": false}
		}}`
		rec := p.Parse(raw)
		left := rec.Boxes[analysis.BoxLeft]
		right := rec.Boxes[analysis.BoxRight]
		if left == nil || right == nil {
			t.Fatalf("boxes: %+v", rec.Boxes)
		}
		if !left.HasHandwriting || right.HasHandwriting {
			t.Errorf("handwriting flags: left=%v right=%v", left.HasHandwriting, right.HasHandwriting)
		}
		if len(left.Items) != 1 || left.Items[0].HandwrittenText != "Salary sacrifice" {
			t.Errorf("left items: %+v", left.Items)
		}
	})

	t.Run("boolean coercion from strings", func(t *testing.T) {
		raw := `{"row_deletion_rule": {"should_delete_entire_row": "true", "explanation": "marked"}}`
		rec := p.Parse(raw)
		if !rec.RowDeletion.ShouldDeleteEntireRow {
			t.Error("string true not coerced")
		}
	})

	t.Run("numeric item numbers as strings", func(t *testing.T) {
		raw := `{"box_analysis": {"deletion_details": [{"item_number": "3", "item_text": "x", "should_delete": true}]}}`
		rec := p.Parse(raw)
		if got := rec.Boxes[analysis.BoxSingle].Items[0].Number; got != 3 {
			t.Errorf("got %d", got)
		}
	})
}

func TestRecordEmpty(t *testing.T) {
	tests := []struct {
		name string
		rec  analysis.Record
		want bool
	}{
		{"zero value", analysis.Record{}, true},
		{"row deletion set", analysis.Record{RowDeletion: analysis.RowDeletion{ShouldDeleteEntireRow: true}}, false},
		{"goals present", analysis.Record{Goals: []analysis.Item{{Number: 1}}}, false},
		{"box without items", analysis.Record{Boxes: map[string]*analysis.Box{"left": {HasDeletionMarks: true}}}, true},
		{"box with items", analysis.Record{Boxes: map[string]*analysis.Box{"left": {Items: []analysis.Item{{Number: 1}}}}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rec.Empty(); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

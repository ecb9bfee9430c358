// Package analysis turns raw vision-model output into structured records.
// The model's output is untrusted free text; everything "what if the model
// said something weird" is handled at this boundary, so downstream stages
// only ever see a well-formed Record.
package analysis

// Box identifiers. Dual-box sections use left/right; single-box sections
// use BoxSingle.
const (
	BoxLeft   = "left"
	BoxRight  = "right"
	BoxSingle = "single"
)

// Record is the parsed result of one section analysis. A zero-value Record
// plans no edits; Parse never fails harder than returning one.
type Record struct {
	Boxes       map[string]*Box
	RowDeletion RowDeletion
	Goals       []Item
	Explanation string
	// Source is the decoded JSON object the record was built from, kept
	// for the persisted artifact. Nil when parsing produced the default
	// record.
	Source map[string]any
}

// Empty reports whether the record carries nothing actionable.
func (r *Record) Empty() bool {
	if r.RowDeletion.ShouldDeleteEntireRow {
		return false
	}
	if len(r.Goals) > 0 {
		return false
	}
	for _, b := range r.Boxes {
		if b != nil && len(b.Items) > 0 {
			return false
		}
	}
	return true
}

// Box is the analysis of one box within a section.
type Box struct {
	HasDeletionMarks       bool
	HasHandwriting         bool
	TotalItems             int
	InterruptedItems       int
	AllItemsInterrupted    bool
	ContinuousLineDetected bool
	Items                  []Item
}

// Item is one enumerable unit of content within a box, addressed by its
// 1-based number.
type Item struct {
	Number          int
	Text            string
	ShouldDelete    bool
	ReplacementText string
	HandwrittenText string
}

// RowDeletion is the section-level assessment of whether the entire
// backing table row should be removed. It takes precedence over every
// finer-grained edit.
type RowDeletion struct {
	ShouldDeleteEntireRow bool
	Explanation           string
}

// Package audit accumulates an append-only record of every document
// mutation and every planning diagnostic produced during a run, in memory
// for the orchestrator and optionally persisted to SQLite for later
// inspection.
package audit

import (
	"fmt"
	"sync"
)

// snippetLimit caps before/after text captured in change records.
const snippetLimit = 100

// Snippet truncates s to the capture limit, marking the cut with an
// ellipsis.
func Snippet(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetLimit {
		return s
	}
	return string(runes[:snippetLimit]) + "..."
}

// ChangeRecord is one audit entry. Records are never mutated after append;
// Sequence orders them within a run independent of wall-clock time.
type ChangeRecord struct {
	Sequence  int    `json:"sequence"`
	RunID     string `json:"run_id"`
	Section   string `json:"section"`
	Operation string `json:"operation"`
	Location  string `json:"location"`
	Before    string `json:"before"`
	After     string `json:"after"`
	Reason    string `json:"reason,omitempty"`
}

// Trail is the in-memory audit trail for one run.
type Trail struct {
	mu      sync.Mutex
	runID   string
	records []ChangeRecord
}

// NewTrail starts an empty trail for the given run.
func NewTrail(runID string) *Trail {
	return &Trail{runID: runID}
}

// Rebuild reconstructs a trail from previously persisted records, keeping
// their original sequence numbers.
func Rebuild(runID string, records []ChangeRecord) *Trail {
	t := NewTrail(runID)
	t.records = append(t.records, records...)
	return t
}

// RunID returns the run this trail belongs to.
func (t *Trail) RunID() string {
	return t.runID
}

// Append records a mutation. Before and after text are truncated to the
// snippet limit; the assigned record is returned.
func (t *Trail) Append(section, operation, location, before, after, reason string) ChangeRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := ChangeRecord{
		Sequence:  len(t.records) + 1,
		RunID:     t.runID,
		Section:   section,
		Operation: operation,
		Location:  location,
		Before:    Snippet(before),
		After:     Snippet(after),
		Reason:    reason,
	}
	t.records = append(t.records, rec)
	return rec
}

// AppendDiagnostic records a non-mutating event: a skipped edit, an
// ambiguous match, or a structural mismatch.
func (t *Trail) AppendDiagnostic(section, stage, message string) ChangeRecord {
	return t.Append(section, "diagnostic:"+stage, "", "", "", message)
}

// Records returns a copy of the trail in append order.
func (t *Trail) Records() []ChangeRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ChangeRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Len reports the number of entries.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Mutations counts entries that changed the document, excluding
// diagnostics.
func (t *Trail) Mutations() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, r := range t.records {
		if !isDiagnostic(r) {
			n++
		}
	}
	return n
}

func isDiagnostic(r ChangeRecord) bool {
	return len(r.Operation) > 11 && r.Operation[:11] == "diagnostic:"
}

// SectionSummary aggregates a trail by section.
type SectionSummary struct {
	Section     string
	Mutations   int
	Diagnostics int
}

// Summaries returns per-section aggregates in first-seen order.
func (t *Trail) Summaries() []SectionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	index := map[string]int{}
	var out []SectionSummary
	for _, r := range t.records {
		i, ok := index[r.Section]
		if !ok {
			i = len(out)
			index[r.Section] = i
			out = append(out, SectionSummary{Section: r.Section})
		}
		if isDiagnostic(r) {
			out[i].Diagnostics++
		} else {
			out[i].Mutations++
		}
	}
	return out
}

// Describe renders a record for logs.
func Describe(r ChangeRecord) string {
	if r.Reason != "" {
		return fmt.Sprintf("#%d %s %s at %s (%s)", r.Sequence, r.Section, r.Operation, r.Location, r.Reason)
	}
	return fmt.Sprintf("#%d %s %s at %s", r.Sequence, r.Section, r.Operation, r.Location)
}

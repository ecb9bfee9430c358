package workflow

import (
	"time"

	"github.com/calebwren/redline/internal/analysis"
	"github.com/calebwren/redline/internal/mutate"
	"github.com/calebwren/redline/internal/plan"
	"github.com/calebwren/redline/internal/sections"
	"github.com/calebwren/redline/internal/vision"
)

// Stage is a section's position in its processing state machine. Stages
// advance strictly forward; StageFailed absorbs from any point.
type Stage string

const (
	StagePending     Stage = "pending"
	StageImageLoaded Stage = "image_loaded"
	StageAnalyzed    Stage = "analyzed"
	StageParsed      Stage = "parsed"
	StagePlanned     Stage = "planned"
	StageMutated     Stage = "mutated"
	StagePersisted   Stage = "persisted"
	StageFailed      Stage = "failed"
)

// Status is the per-section outcome the orchestrator reports.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// State graph keys.
const (
	KeySection = "section"
)

// sectionState is the value threaded through one section's state graph.
type sectionState struct {
	Desc      sections.Descriptor
	Stage     Stage
	ImagePath string
	Raw       vision.Output
	Record    *analysis.Record
	Plan      plan.Plan
	Result    mutate.Result
}

// SectionReport is the per-section summary the orchestrator aggregates.
type SectionReport struct {
	Section     string        `json:"section"`
	Stage       Stage         `json:"stage"`
	Status      Status        `json:"status"`
	Attempted   int           `json:"operations_attempted"`
	Applied     int           `json:"operations_applied"`
	Skipped     int           `json:"operations_skipped"`
	Diagnostics int           `json:"diagnostics"`
	Error       string        `json:"error,omitempty"`
	Elapsed     time.Duration `json:"elapsed"`
}

// RunResult aggregates one full processing run.
type RunResult struct {
	RunID        string          `json:"run_id"`
	DocumentPath string          `json:"document_path,omitempty"`
	OutputPath   string          `json:"output_path,omitempty"`
	Reports      []SectionReport `json:"reports"`
	CompletedAt  time.Time       `json:"completed_at"`
}

// Succeeded counts fully successful sections.
func (r *RunResult) Succeeded() int {
	n := 0
	for _, rep := range r.Reports {
		if rep.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// Failed counts failed sections.
func (r *RunResult) Failed() int {
	n := 0
	for _, rep := range r.Reports {
		if rep.Status == StatusFailed {
			n++
		}
	}
	return n
}

// status derives the reported outcome from a finished section state.
func (s *sectionState) status() Status {
	if s.Stage == StageFailed {
		return StatusFailed
	}
	if s.Result.Skipped > 0 {
		return StatusPartial
	}
	return StatusSuccess
}

func (s *sectionState) report(elapsed time.Duration, errText string) SectionReport {
	rep := SectionReport{
		Section:     s.Desc.Name,
		Stage:       s.Stage,
		Status:      s.status(),
		Attempted:   s.Result.Attempted,
		Applied:     s.Result.Applied,
		Skipped:     s.Result.Skipped,
		Diagnostics: len(s.Plan.Diagnostics),
		Error:       errText,
		Elapsed:     elapsed,
	}
	if errText != "" {
		rep.Stage = StageFailed
		rep.Status = StatusFailed
	}
	return rep
}

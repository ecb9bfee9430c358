package workflow

import (
	"log/slog"

	"github.com/calebwren/redline/internal/analysis"
	"github.com/calebwren/redline/internal/audit"
	"github.com/calebwren/redline/internal/docx"
	"github.com/calebwren/redline/internal/mutate"
	"github.com/calebwren/redline/internal/plan"
	"github.com/calebwren/redline/internal/sections"
	"github.com/calebwren/redline/internal/spelling"
	"github.com/calebwren/redline/internal/vision"
)

// Runtime bundles the dependencies the section state graph requires for
// one run. The document is shared, mutable state: sections are processed
// strictly sequentially because each section's mutations would invalidate
// indices planned concurrently by another.
type Runtime struct {
	Analyzer  vision.Analyzer
	Parser    *analysis.Parser
	Planner   *plan.Planner
	Mutator   *mutate.Mutator
	Trail     *audit.Trail
	Registry  *sections.Registry
	Corrector *spelling.Corrector
	Document  *docx.Document

	// ImagesDir holds one PNG per section, named <section>.png.
	ImagesDir string
	// ArtifactDir receives per-section analysis artifacts.
	ArtifactDir string
	// AnalyzeOnly skips document mutation; artifacts are still written.
	AnalyzeOnly bool

	Logger *slog.Logger
}

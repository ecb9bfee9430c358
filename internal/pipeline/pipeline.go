// Package pipeline assembles a full processing run: optionally split the
// scanned PDF into section images, execute the per-section workflow
// against the DOCX document, save the mutated document, and persist the
// audit trail. Both the CLI and the HTTP API run through it.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/calebwren/redline/internal/analysis"
	"github.com/calebwren/redline/internal/audit"
	"github.com/calebwren/redline/internal/config"
	"github.com/calebwren/redline/internal/docx"
	"github.com/calebwren/redline/internal/mutate"
	"github.com/calebwren/redline/internal/plan"
	"github.com/calebwren/redline/internal/sections"
	"github.com/calebwren/redline/internal/spelling"
	"github.com/calebwren/redline/internal/splitter"
	"github.com/calebwren/redline/internal/vision"
	"github.com/calebwren/redline/internal/workflow"
)

// Options configures a single run.
type Options struct {
	// DocumentPath is the DOCX action plan to mutate.
	DocumentPath string
	// ScanPath, when set, is the scanned PDF to split into section images
	// before processing. When empty, existing images in ImagesDir are used.
	ScanPath string
	// OutputPath receives the mutated document. Ignored when AnalyzeOnly.
	OutputPath string
	// AnalyzeOnly runs analysis and planning but applies no edits.
	AnalyzeOnly bool
}

// Pipeline holds per-process dependencies shared across runs.
type Pipeline struct {
	cfg      *config.Config
	registry *sections.Registry
	analyzer vision.Analyzer
	store    *audit.Store
	logger   *slog.Logger
}

// New builds a Pipeline. analyzer may be nil, in which case a live
// vision-model analyzer is built from the agent config. store may be nil
// to skip audit persistence.
func New(cfg *config.Config, registry *sections.Registry, analyzer vision.Analyzer, store *audit.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if analyzer == nil {
		analyzer = vision.NewAgentAnalyzer(cfg.Agent.Build(), cfg.Agent.TimeoutDuration(), logger)
	}
	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		analyzer: analyzer,
		store:    store,
		logger:   logger,
	}
}

// Registry exposes the section registry the pipeline runs against.
func (p *Pipeline) Registry() *sections.Registry {
	return p.registry
}

// Run executes one full processing run and returns its aggregated result.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*workflow.RunResult, error) {
	runID := uuid.NewString()

	if opts.ScanPath != "" {
		pages, err := splitter.New(p.logger).Split(ctx, opts.ScanPath, p.cfg.Pipeline.ImagesDir, p.registry)
		if err != nil {
			return nil, fmt.Errorf("split scan: %w", err)
		}
		p.logger.InfoContext(ctx, "scan split",
			"run_id", runID,
			"pages", pages)
	}

	doc, err := docx.Open(opts.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	validator, err := analysis.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("build validator: %w", err)
	}

	trail := audit.NewTrail(runID)
	rt := &workflow.Runtime{
		Analyzer:    p.analyzer,
		Parser:      analysis.NewParser(p.logger, validator),
		Planner:     plan.NewPlanner(p.logger),
		Mutator:     mutate.New(p.logger, trail),
		Trail:       trail,
		Registry:    p.registry,
		Corrector:   spelling.New(nil),
		Document:    doc,
		ImagesDir:   p.cfg.Pipeline.ImagesDir,
		ArtifactDir: p.cfg.Pipeline.ArtifactDir,
		AnalyzeOnly: opts.AnalyzeOnly,
		Logger:      p.logger,
	}

	result, err := workflow.Execute(ctx, rt)
	if err != nil {
		return nil, fmt.Errorf("execute run: %w", err)
	}
	result.DocumentPath = opts.DocumentPath

	if !opts.AnalyzeOnly && opts.OutputPath != "" {
		if err := doc.Save(opts.OutputPath); err != nil {
			return nil, fmt.Errorf("save document: %w", err)
		}
		result.OutputPath = opts.OutputPath
	}

	if p.store != nil {
		if err := p.store.SaveTrail(ctx, trail); err != nil {
			return nil, fmt.Errorf("save audit trail: %w", err)
		}
	}

	p.logger.InfoContext(ctx, "run complete",
		"run_id", runID,
		"sections", len(result.Reports),
		"succeeded", result.Succeeded(),
		"failed", result.Failed(),
		"mutations", trail.Mutations())

	return result, nil
}

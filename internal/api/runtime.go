package api

import (
	"context"
	"log/slog"

	"github.com/calebwren/redline/internal/audit"
	"github.com/calebwren/redline/internal/config"
	"github.com/calebwren/redline/internal/pipeline"
	"github.com/calebwren/redline/internal/report"
	"github.com/calebwren/redline/internal/workflow"
	"github.com/calebwren/redline/pkg/lifecycle"
	"github.com/calebwren/redline/pkg/pagination"
)

// Runner executes a processing run. *pipeline.Pipeline satisfies it; tests
// substitute stubs.
type Runner interface {
	Run(ctx context.Context, opts pipeline.Options) (*workflow.RunResult, error)
}

// Runtime carries the handlers' dependencies.
type Runtime struct {
	Runner    Runner
	Store     *audit.Store
	Report    *report.Service
	Lifecycle *lifecycle.Coordinator

	Pagination    pagination.Config
	MaxUploadSize int64
	// UploadDir receives uploaded documents and mutated outputs.
	UploadDir string

	Logger *slog.Logger
}

// NewRuntime builds an API runtime from config and shared services.
func NewRuntime(cfg *config.Config, runner Runner, store *audit.Store, lc *lifecycle.Coordinator, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "api")
	return &Runtime{
		Runner:        runner,
		Store:         store,
		Report:        report.NewService(logger),
		Lifecycle:     lc,
		Pagination:    cfg.API.Pagination,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		UploadDir:     "work/uploads",
		Logger:        logger,
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebwren/redline/internal/audit"
	"github.com/calebwren/redline/internal/config"
	"github.com/calebwren/redline/internal/pipeline"
	"github.com/calebwren/redline/internal/vision"
	"github.com/calebwren/redline/internal/workflow"
)

func runCmd() *cobra.Command {
	var (
		document string
		scan     string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Split, analyze, and apply annotations in one pass",
		Long: `Run the full pipeline: split the scanned PDF into section images,
analyze every section with the vision model, apply the planned edits to
the DOCX document, and persist the audit trail.

Example:
  redline run --document plan.docx --scan plan-annotated.pdf --output plan-updated.docx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, pipeline.Options{
				DocumentPath: document,
				ScanPath:     scan,
				OutputPath:   output,
			}, nil)
		},
	}

	cmd.Flags().StringVar(&document, "document", "", "source DOCX action plan (required)")
	cmd.Flags().StringVar(&scan, "scan", "", "scanned, annotated PDF")
	cmd.Flags().StringVar(&output, "output", "", "path for the mutated document (required)")
	_ = cmd.MarkFlagRequired("document")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// executeRun wires a pipeline from config and runs it. analyzerFn may be
// nil for a live vision-model analyzer.
func executeRun(cmd *cobra.Command, opts pipeline.Options, analyzerFn func(*config.Config) vision.Analyzer) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()

	var analyzer vision.Analyzer
	if analyzerFn != nil {
		analyzer = analyzerFn(cfg)
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}

	store, err := audit.OpenStore(cfg.Pipeline.AuditDB)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer store.Close()

	p := pipeline.New(cfg, registry, analyzer, store, logger)
	result, err := p.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}

	printResult(cmd, result)
	if result.Failed() > 0 {
		return fmt.Errorf("%d of %d sections failed", result.Failed(), len(result.Reports))
	}
	return nil
}

func printResult(cmd *cobra.Command, result *workflow.RunResult) {
	cmd.Printf("run %s: %d sections, %d succeeded, %d failed\n",
		result.RunID, len(result.Reports), result.Succeeded(), result.Failed())
	for _, rep := range result.Reports {
		switch rep.Status {
		case workflow.StatusFailed:
			cmd.Printf("  %-14s failed: %s\n", rep.Section, rep.Error)
		case workflow.StatusPartial:
			cmd.Printf("  %-14s partial: %d/%d operations applied\n", rep.Section, rep.Applied, rep.Attempted)
		default:
			cmd.Printf("  %-14s ok: %d operations applied\n", rep.Section, rep.Applied)
		}
	}
	if result.OutputPath != "" {
		cmd.Printf("wrote %s\n", result.OutputPath)
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/calebwren/redline/internal/config"
	"github.com/calebwren/redline/internal/pipeline"
	"github.com/calebwren/redline/internal/vision"
)

func applyCmd() *cobra.Command {
	var (
		document string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply previously analyzed artifacts to the document",
		Long: `Replay the artifacts written by "redline analyze" against the DOCX
document, without calling the vision model again.

Example:
  redline apply --document plan.docx --output plan-updated.docx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, pipeline.Options{
				DocumentPath: document,
				OutputPath:   output,
			}, func(cfg *config.Config) vision.Analyzer {
				return vision.NewArtifactAnalyzer(cfg.Pipeline.ArtifactDir)
			})
		},
	}

	cmd.Flags().StringVar(&document, "document", "", "source DOCX action plan (required)")
	cmd.Flags().StringVar(&output, "output", "", "path for the mutated document (required)")
	_ = cmd.MarkFlagRequired("document")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/calebwren/redline/internal/pipeline"
)

func analyzeCmd() *cobra.Command {
	var (
		document string
		scan     string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze sections and write artifacts without mutating the document",
		Long: `Run analysis and edit planning for every section, writing per-section
artifacts to the artifact directory, but apply no edits. A later
"redline apply" replays the saved artifacts against the document.

Example:
  redline analyze --document plan.docx --scan plan-annotated.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, pipeline.Options{
				DocumentPath: document,
				ScanPath:     scan,
				AnalyzeOnly:  true,
			}, nil)
		},
	}

	cmd.Flags().StringVar(&document, "document", "", "source DOCX action plan (required)")
	cmd.Flags().StringVar(&scan, "scan", "", "scanned, annotated PDF")
	_ = cmd.MarkFlagRequired("document")

	return cmd
}

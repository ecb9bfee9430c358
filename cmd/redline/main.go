// Command redline reconciles hand-annotated, scanned financial-planning
// action plans against their source DOCX documents: it splits the scan
// into section images, analyzes the annotations with a vision model, and
// applies the marked-up edits to the document with a full audit trail.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/calebwren/redline/internal/config"
	"github.com/calebwren/redline/internal/sections"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "redline",
		Short: "Apply hand-annotated edits from scanned action plans to DOCX documents",
		Long: `redline reads a scanned, hand-annotated financial-planning action plan,
analyzes each section's handwriting and deletion marks with a vision
model, and applies the resulting edits to the source DOCX document.

Every change is recorded in an audit trail that can be listed, queried,
and exported as an XLSX report.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", config.BaseConfigFile, "path to the base TOML config")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func loadRegistry(cfg *config.Config) (*sections.Registry, error) {
	if cfg.Pipeline.SectionsFile != "" {
		return sections.Load(cfg.Pipeline.SectionsFile)
	}
	return sections.Default(), nil
}

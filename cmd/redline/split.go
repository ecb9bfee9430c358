package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebwren/redline/internal/splitter"
)

func splitCmd() *cobra.Command {
	var (
		scan string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a scanned PDF into per-section images",
		Long: `Validate the scanned PDF, render each page to PNG, and crop the
registered section regions into per-section images.

Example:
  redline split --scan plan-annotated.pdf --out work/images`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.Pipeline.ImagesDir
			}

			registry, err := loadRegistry(cfg)
			if err != nil {
				return fmt.Errorf("load sections: %w", err)
			}

			pages, err := splitter.New(newLogger()).Split(cmd.Context(), scan, out, registry)
			if err != nil {
				return err
			}

			cmd.Printf("rendered %d pages, %d section images in %s\n", pages, registry.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&scan, "scan", "", "scanned, annotated PDF (required)")
	cmd.Flags().StringVar(&out, "out", "", "output directory (defaults to the configured images dir)")
	_ = cmd.MarkFlagRequired("scan")

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebwren/redline/internal/audit"
	"github.com/calebwren/redline/internal/report"
)

func reportCmd() *cobra.Command {
	var (
		runID string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a run's audit trail as an XLSX workbook",
		Long: `Export the change records of a stored run as an XLSX workbook with a
per-section summary sheet. Without --run, the available run IDs are
listed.

Example:
  redline report --run 6b9f... --out changes.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := audit.OpenStore(cfg.Pipeline.AuditDB)
			if err != nil {
				return fmt.Errorf("open audit store: %w", err)
			}
			defer store.Close()

			if runID == "" {
				ids, err := store.RunIDs(cmd.Context())
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					cmd.Println("no stored runs")
					return nil
				}
				for _, id := range ids {
					cmd.Println(id)
				}
				return nil
			}

			records, err := store.RunRecords(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("unknown run id: %s", runID)
			}

			svc := report.NewService(newLogger())
			if err := svc.ExportXLSXFile(audit.Rebuild(runID, records), out); err != nil {
				return err
			}

			cmd.Printf("wrote %s (%d records)\n", out, len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run ID to export")
	cmd.Flags().StringVar(&out, "out", "changes.xlsx", "output XLSX path")

	return cmd
}

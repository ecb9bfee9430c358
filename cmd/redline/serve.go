package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calebwren/redline/internal/api"
	"github.com/calebwren/redline/internal/audit"
	"github.com/calebwren/redline/internal/pipeline"
	"github.com/calebwren/redline/pkg/lifecycle"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the processing API over HTTP",
		Long: `Start the HTTP service: upload a document and scan to launch a run,
list stored runs, page through their change records, and download XLSX
reports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger()

			registry, err := loadRegistry(cfg)
			if err != nil {
				return fmt.Errorf("load sections: %w", err)
			}

			store, err := audit.OpenStore(cfg.Pipeline.AuditDB)
			if err != nil {
				return fmt.Errorf("open audit store: %w", err)
			}
			defer store.Close()

			lc := lifecycle.New()
			runner := pipeline.New(cfg, registry, nil, store, logger)
			rt := api.NewRuntime(cfg, runner, store, lc, logger)

			server := newHTTPServer(&cfg.Server, api.NewRouter(cfg, rt), logger)
			server.Start(lc)
			lc.WaitForStartup()

			logger.Info("redline serving",
				"version", cfg.Version,
				"addr", cfg.Server.Addr(),
				"env", cfg.Env(),
				"sections", registry.Len())

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan

			return lc.Shutdown(cfg.ShutdownTimeoutDuration())
		},
	}
}

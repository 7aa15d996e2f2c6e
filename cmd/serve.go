package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"blockstudio/internal/config"
	"blockstudio/internal/server"
	"blockstudio/internal/ui"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the block editor API: languages, block catalogs, compilation,
validation, and session storage.

  blockstudio serve                # listen on the configured address
  blockstudio serve --addr :8080   # override the listen address`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := newLogger()

			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			stop, err := cat.Watch(logger)
			if err != nil {
				logger.Warn("block catalog watcher disabled", "error", err)
			} else {
				defer stop()
			}

			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			srv := server.New(cat, store, logger)
			ui.Good.Printf("  Listening on %s\n", cfg.Server.Addr)
			if err := srv.Run(cfg.Server.Addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

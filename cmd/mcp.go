package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"blockstudio/internal/canvas"
	"blockstudio/internal/config"
	"blockstudio/internal/domain"
	"blockstudio/internal/mcpserver"
	"blockstudio/internal/persist"
)

func mcpCmd() *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Expose the block editor as MCP tools so AI agents can build,
edit, and compile block programs. The most recent stored session is
resumed unless --fresh is given; edits autosave on the configured
debounce window.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger()

			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			gateway := persist.NewGateway(store, cat, logger)
			sess := canvas.NewSession(cfg.Editor.Language, cfg.Editor.HistoryCap)

			if !fresh {
				doc, err := gateway.Load("")
				switch {
				case err == nil:
					if err := gateway.Import(sess, *doc); err != nil {
						return err
					}
					logger.Info("resumed session", "id", sess.ID, "blocks", sess.Graph().Len())
				case errors.Is(err, domain.ErrNotFound):
					logger.Info("no stored session, starting fresh")
				default:
					return err
				}
			}

			saver := persist.NewAutosaver(gateway, sess,
				time.Duration(cfg.Autosave.DebounceMs)*time.Millisecond, logger)
			stopCheckpoints, err := saver.StartCheckpoints(cfg.Autosave.Checkpoint)
			if err != nil {
				logger.Warn("checkpoints disabled", "error", err)
			} else {
				defer stopCheckpoints()
			}
			defer saver.Flush()

			srv := mcpserver.New(mcpserver.Deps{
				Session: sess,
				Catalog: cat,
				Gateway: gateway,
				Logger:  logger,
			})
			return srv.ServeStdio()
		},
	}

	cmd.Flags().BoolVar(&fresh, "fresh", false, "Start with an empty canvas instead of resuming")
	return cmd
}

package cmd

import (
	"github.com/spf13/cobra"

	"blockstudio/internal/canvas"
	"blockstudio/internal/config"
	"blockstudio/internal/ui"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [session-id]",
		Short: "Export a stored session to a JSON file",
		Long: `Export a session to a portable JSON file with the canvas and
export metadata. Without a session id the most recent session is used.

  blockstudio export -o program.json
  blockstudio export 4f1c… -o program.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger()

			gateway, closeStore, err := newGateway(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			doc, err := gateway.Load(id)
			if err != nil {
				return err
			}

			sess := canvas.NewSession(doc.Language, cfg.Editor.HistoryCap)
			if err := gateway.Import(sess, *doc); err != nil {
				return err
			}
			if err := gateway.ExportToFile(sess, output); err != nil {
				return err
			}
			ui.Good.Printf("  Exported %d blocks to %s\n", sess.Graph().Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "program.json", "Output file path")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a JSON file as a new stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger()

			gateway, closeStore, err := newGateway(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			sess := canvas.NewSession(cfg.Editor.Language, cfg.Editor.HistoryCap)
			if err := gateway.ImportFromFile(sess, args[0]); err != nil {
				return err
			}

			id, err := gateway.Save(gateway.Serialize(sess))
			if err != nil {
				return err
			}
			ui.Good.Printf("  Imported %d blocks as session %s\n", sess.Graph().Len(), id)
			return nil
		},
	}
	return cmd
}

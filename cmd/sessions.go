package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"blockstudio/internal/config"
	"blockstudio/internal/ui"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			sessions, err := store.List()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("  No stored sessions")
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, []string{
					s.SessionID,
					s.Language,
					s.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			ui.Table([]string{"ID", "LANGUAGE", "UPDATED"}, rows)
			return nil
		},
	}

	cmd.AddCommand(sessionsDeleteCmd())
	return cmd
}

func sessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <session-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Delete(args[0]); err != nil {
				return err
			}
			ui.Good.Printf("  Deleted session %s\n", args[0])
			return nil
		},
	}
}

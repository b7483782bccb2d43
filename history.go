package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/mathflash/internal/config"
	"github.com/robalobadob/mathflash/internal/database"
	"github.com/robalobadob/mathflash/internal/sessionlog"
	"github.com/robalobadob/mathflash/internal/tui"
)

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the recent-session log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			key := sessionlog.DefaultKey
			if player != "" {
				key = sessionlog.PlayerKey(player)
			}
			snaps, err := sessionlog.New(sessionlog.NewSQLiteBlobs(db)).Recent(cmd.Context(), key)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(snaps))
			return nil
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player id of a browser player (default: terminal sessions)")
	return cmd
}

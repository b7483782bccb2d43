// main.go
//
// mathflash entry point.
// Commands:
//   - serve:   run the HTTP backend (setup hand-off, play sessions, recent log).
//   - play:    play a session in the terminal.
//   - history: print the recent-session log.

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mathflash/assets"
	"github.com/robalobadob/mathflash/internal/config"
	"github.com/robalobadob/mathflash/internal/setup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:           "mathflash",
		Short:         "Arithmetic flash-card practice",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			*cfg = *c
			if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}
			return nil
		},
	}

	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newPlayCmd(cfg))
	root.AddCommand(newHistoryCmd(cfg))
	return root
}

// loadPresets parses the embedded range presets.
func loadPresets() []setup.Preset {
	presets, err := setup.ParsePresets(assets.Presets())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load range presets")
	}
	return presets
}

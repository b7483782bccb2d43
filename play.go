package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mathflash/internal/config"
	"github.com/robalobadob/mathflash/internal/database"
	"github.com/robalobadob/mathflash/internal/game"
	"github.com/robalobadob/mathflash/internal/question"
	"github.com/robalobadob/mathflash/internal/sessionlog"
	"github.com/robalobadob/mathflash/internal/setup"
	"github.com/robalobadob/mathflash/internal/tui"
)

func newPlayCmd(cfg *config.Config) *cobra.Command {
	var ops []string
	var rng, qtype string

	cmd := &cobra.Command{
		Use:   "play --ops addition,division --range 1-10 --type both",
		Short: "Play a session in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			blob, err := handoff(ops, rng, qtype, loadPresets())
			if err != nil {
				return err
			}
			return play(cmd.Context(), cmd.OutOrStdout(), cfg, blob)
		},
	}
	cmd.Flags().StringSliceVar(&ops, "ops", nil, "operations: addition|subtraction|multiplication|division")
	cmd.Flags().StringVar(&rng, "range", "", `number range "min-max" or a preset label (starter, basic, times-tables, advanced, expert)`)
	cmd.Flags().StringVar(&qtype, "type", "", "question type: missing-result|missing-operand|both")
	return cmd
}

// handoff runs the setup flow for the flag values and returns the encoded config.
func handoff(ops []string, rng, qtype string, presets []setup.Preset) ([]byte, error) {
	b := setup.NewBuilder()
	var actions []setup.Action
	for _, op := range ops {
		actions = append(actions, setup.Action{Kind: setup.ActSelectOperation, Value: strings.TrimSpace(op)})
	}
	if rng != "" {
		if p, ok := setup.FindPreset(presets, rng); ok {
			rng = p.Range.String()
		}
		actions = append(actions, setup.Action{Kind: setup.ActSelectRange, Value: rng})
	}
	if qtype != "" {
		actions = append(actions, setup.Action{Kind: setup.ActSelectType, Value: qtype})
	}
	for _, a := range actions {
		if err := b.Apply(a); err != nil {
			return nil, err
		}
	}

	c, ok := b.Finalize()
	if !ok {
		p := b.Preview()
		var missing []string
		for _, v := range []string{p.Operations, p.Range, p.Mode} {
			if strings.HasPrefix(v, "Select ") {
				missing = append(missing, strings.ToLower(v))
			}
		}
		return nil, fmt.Errorf("setup incomplete: %s", strings.Join(missing, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.Encode()
}

func play(ctx context.Context, out io.Writer, cfg *config.Config, blob []byte) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := setup.Decode(blob)
	if err != nil {
		return fmt.Errorf("no configuration found: %w", err)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// keep log lines off the game screen
	zerolog.SetGlobalLevel(max(zerolog.GlobalLevel(), zerolog.WarnLevel))

	listen, events := tui.Relay()
	sess := game.Start(c, question.NewGenerator(nil), game.Options{
		Sink:     sessionlog.New(sessionlog.NewSQLiteBlobs(db)).For(sessionlog.DefaultKey),
		Listener: listen,
	})

	final, err := tea.NewProgram(tui.NewModel(sess, events), tea.WithInput(os.Stdin), tea.WithOutput(out)).Run()
	if err != nil {
		_, _, _ = sess.End(ctx)
		return err
	}

	res := final.(tui.Model).Result()
	if !sess.Ended() {
		res.Snapshot, res.Recorded, res.Err = sess.End(ctx)
	}
	switch {
	case res.Err != nil:
		return res.Err
	case res.Recorded:
		_, _ = fmt.Fprintln(out, tui.RenderSnapshot(res.Snapshot))
	default:
		_, _ = fmt.Fprintln(out, tui.Muted.Render("no answers, nothing recorded"))
	}
	return nil
}

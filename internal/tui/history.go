package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/mathflash/internal/game"
)

// RenderHistory lists logged sessions, newest first.
func RenderHistory(snaps []game.Snapshot) string {
	if len(snaps) == 0 {
		return Muted.Render("no sessions yet") + "\n"
	}
	var b strings.Builder
	b.WriteString(Banner.Render("Recent sessions"))
	b.WriteString("\n")
	for i := len(snaps) - 1; i >= 0; i-- {
		b.WriteString(RenderSnapshot(snaps[i]))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSnapshot is one history line, e.g.
// "2026-03-01 09:00  7/8 (88%)  best streak 5  01:23  ADDITION | Range: 1-10 | Mode: RANDOM MIX".
func RenderSnapshot(s game.Snapshot) string {
	when := time.UnixMilli(s.Timestamp).UTC().Format("2006-01-02 15:04")
	score := fmt.Sprintf("%d/%d (%d%%)", s.Stats.Correct, s.Stats.Total, s.Stats.Accuracy())
	return fmt.Sprintf("%s  %s  best streak %d  %s  %s",
		Muted.Render(when),
		Success.Render(score),
		s.Stats.MaxStreak,
		game.FormatElapsed(time.Duration(s.DurationMs)*time.Millisecond),
		s.Config.MissionText(),
	)
}

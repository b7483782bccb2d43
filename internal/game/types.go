// internal/game/types.go
//
// Core type definitions for a practice session.
// Defines:
//   - Stats: running counters for one session.
//   - Phase: where the session is in the answer/feedback cycle.
//   - Feedback: the last message shown to the player.
//   - View: everything the presentation layer renders.
//   - Snapshot: the terminal record written to the session log.

package game

import (
	"fmt"
	"math"
	"time"

	"github.com/robalobadob/mathflash/internal/question"
	"github.com/robalobadob/mathflash/internal/setup"
)

// Stats holds the running statistics of a session.
// Invariants: Correct <= Total; MaxStreak >= Streak.
type Stats struct {
	StartTime time.Time `json:"startTime"` // shifted forward on resume
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	Streak    int       `json:"streak"`
	MaxStreak int       `json:"maxStreak"`
}

// Accuracy returns round(correct/total*100), or 100 before any answer.
func (s Stats) Accuracy() int {
	if s.Total == 0 {
		return 100
	}
	return int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
}

// Phase is the position in the answer cycle.
type Phase string

const (
	PhaseAwaiting  Phase = "awaiting_answer"
	PhaseCorrect   Phase = "correct"   // next question pending
	PhaseIncorrect Phase = "incorrect" // player keeps answering the same question
	PhaseEnded     Phase = "ended"
)

// FeedbackKind classifies a feedback message.
type FeedbackKind string

const (
	FeedbackNone       FeedbackKind = ""
	FeedbackSuccess    FeedbackKind = "success"
	FeedbackError      FeedbackKind = "error"
	FeedbackValidation FeedbackKind = "validation"
)

// Feedback is the last message produced by an action.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`
	Visible bool         `json:"visible"`
}

// View is the display contract consumed by the HTTP and terminal front-ends.
type View struct {
	ID           string   `json:"id"`
	Mission      string   `json:"mission"`
	Phase        Phase    `json:"phase"`
	Operand1     string   `json:"operand1"`
	Operator     string   `json:"operator"`
	Operand2     string   `json:"operand2"`
	Result       string   `json:"result"`
	Hidden       string   `json:"hiddenSlot"`
	Equation     string   `json:"equation"`
	Feedback     Feedback `json:"feedback"`
	Streak       int      `json:"streak"`
	Accuracy     int      `json:"accuracy"`
	Elapsed      string   `json:"elapsed"`
	StatsVisible bool     `json:"statsVisible"`
	Paused       bool     `json:"paused"`
	Stats        Stats    `json:"stats"`
}

// Snapshot is written to the session log when a session with answers ends.
type Snapshot struct {
	Timestamp  int64        `json:"timestamp"` // unix ms
	Stats      Stats        `json:"stats"`
	Config     setup.Config `json:"config"`
	DurationMs int64        `json:"durationMs"`
}

// FormatElapsed renders d as MM:SS; minutes keep growing past 99.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d", ms/60000, (ms%60000)/1000)
}

func newView(id string, cfg setup.Config, q question.Question) View {
	a, b, r := q.Display()
	return View{
		ID:       id,
		Mission:  cfg.MissionText(),
		Operand1: a,
		Operator: q.Operation.Symbol(),
		Operand2: b,
		Result:   r,
		Hidden:   string(q.Hidden),
		Equation: q.Equation(),
	}
}

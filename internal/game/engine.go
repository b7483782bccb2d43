// internal/game/engine.go
//
// Session state machine for one practice run.
// Responsibilities:
//   - Start a session: zero stats, generate the first question, start the clock.
//   - Validate and evaluate submitted answers, update streak/accuracy counters.
//   - Advance to a new question 1.5s after a correct answer (wrong answers never advance).
//   - Pause/resume the elapsed-time clock without counting the paused span.
//   - End the session and hand the terminal snapshot to the session log.
//
// Notes:
//   - All state lives behind one mutex; requests and timer callbacks are applied one at a time.
//   - Every timer callback carries a sequence number and is dropped when it no longer
//     matches, so a stopped timer that was already firing cannot touch the session.
//   - Listener callbacks run outside the lock.
package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/mathflash/internal/question"
	"github.com/robalobadob/mathflash/internal/setup"
)

const (
	AdvanceDelay     = 1500 * time.Millisecond
	TickInterval     = time.Second
	ErrorFeedbackTTL = 3 * time.Second
)

var (
	ErrSessionEnded   = errors.New("session ended")
	ErrAdvancePending = errors.New("next question pending")
	ErrUnknownAction  = errors.New("unknown action")
)

// QuestionSource generates questions; *question.Generator satisfies it.
type QuestionSource interface {
	Generate(cfg setup.Config) question.Question
}

// SnapshotSink receives the terminal snapshot of a finished session.
type SnapshotSink interface {
	Append(ctx context.Context, s Snapshot) error
}

// EventKind names a transition that happened without a caller action.
type EventKind string

const (
	EventTick           EventKind = "tick"
	EventAdvance        EventKind = "advance"
	EventFeedbackHidden EventKind = "feedback_hidden"
)

// Listener observes timer-driven transitions.
type Listener func(EventKind, View)

// Options configures a new Session. Zero values pick sensible defaults.
type Options struct {
	ID       string
	Clock    Clock
	Sink     SnapshotSink
	Listener Listener
}

// Session owns the current question, the statistics and the session timers.
type Session struct {
	ID string

	mu       sync.Mutex
	cfg      setup.Config
	gen      QuestionSource
	clock    Clock
	sink     SnapshotSink
	listener Listener

	q            question.Question
	stats        Stats
	phase        Phase
	feedback     Feedback
	statsVisible bool
	paused       bool
	pausedAt     time.Time
	endedAt      time.Time
	lastActive   time.Time

	tick, advance, hide          Timer
	tickSeq, advanceSeq, hideSeq uint64
}

// Start creates a session for cfg and starts its clock.
// cfg is copied; later changes by the caller are not observed.
func Start(cfg setup.Config, gen QuestionSource, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.ID == "" {
		opts.ID = randomID()
	}
	now := opts.Clock.Now()
	s := &Session{
		ID:           opts.ID,
		cfg:          cfg.Clone(),
		gen:          gen,
		clock:        opts.Clock,
		sink:         opts.Sink,
		listener:     opts.Listener,
		stats:        Stats{StartTime: now},
		phase:        PhaseAwaiting,
		statsVisible: true,
		lastActive:   now,
	}
	s.q = gen.Generate(s.cfg)

	s.mu.Lock()
	s.scheduleTick()
	s.mu.Unlock()
	return s
}

// Config returns a copy of the session's configuration.
func (s *Session) Config() setup.Config {
	return s.cfg.Clone()
}

// SubmitAnswer evaluates raw against the current question.
//
// Input that is empty or not an integer only produces validation feedback.
// A valid answer always counts towards Total; a correct one schedules the next
// question after AdvanceDelay, a wrong one resets the streak and keeps the question.
func (s *Session) SubmitAnswer(raw string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseEnded {
		return s.view(), ErrSessionEnded
	}
	s.lastActive = s.clock.Now()
	if s.phase == PhaseCorrect {
		return s.view(), ErrAdvancePending
	}

	input := strings.TrimSpace(raw)
	n, err := strconv.Atoi(input)
	if input == "" || err != nil {
		s.setFeedback(FeedbackValidation, "Enter a valid number")
		return s.view(), nil
	}

	s.stats.Total++
	if n == s.q.ExpectedAnswer {
		s.stats.Correct++
		s.stats.Streak++
		s.stats.MaxStreak = max(s.stats.MaxStreak, s.stats.Streak)
		s.phase = PhaseCorrect
		s.setFeedback(FeedbackSuccess, "CORRECT!")
		s.scheduleAdvance()
	} else {
		s.stats.Streak = 0
		s.phase = PhaseIncorrect
		s.setFeedback(FeedbackError, fmt.Sprintf("INCORRECT. Answer: %d", s.q.ExpectedAnswer))
	}
	return s.view(), nil
}

// Skip replaces the current question without touching the statistics.
// Not allowed while a correct answer's advance is pending.
func (s *Session) Skip() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseEnded {
		return s.view(), ErrSessionEnded
	}
	s.lastActive = s.clock.Now()
	if s.phase == PhaseCorrect {
		return s.view(), ErrAdvancePending
	}
	s.nextQuestion()
	return s.view(), nil
}

// ToggleStats flips the stats panel visibility. Statistics are untouched.
func (s *Session) ToggleStats() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsVisible = !s.statsVisible
	return s.view()
}

// Pause freezes the elapsed-time clock. Answers are still accepted while paused.
func (s *Session) Pause() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseEnded {
		return s.view(), ErrSessionEnded
	}
	if !s.paused {
		s.paused = true
		s.pausedAt = s.clock.Now()
		s.stopTick()
	}
	return s.view(), nil
}

// Resume shifts StartTime forward by the paused span and restarts the clock.
func (s *Session) Resume() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseEnded {
		return s.view(), ErrSessionEnded
	}
	if s.paused {
		now := s.clock.Now()
		s.stats.StartTime = s.stats.StartTime.Add(now.Sub(s.pausedAt))
		s.paused = false
		s.lastActive = now
		s.scheduleTick()
	}
	return s.view(), nil
}

// End stops every timer. If at least one answer was submitted the terminal
// snapshot is returned and appended to the sink; recorded reports whether that happened.
// Ending twice is a no-op.
func (s *Session) End(ctx context.Context) (snap Snapshot, recorded bool, err error) {
	s.mu.Lock()
	if s.phase == PhaseEnded {
		s.mu.Unlock()
		return Snapshot{}, false, nil
	}
	now := s.clock.Now()
	s.endedAt = now
	if s.paused {
		s.endedAt = s.pausedAt
	}
	s.stopTick()
	s.stopAdvance()
	s.stopHide()
	s.phase = PhaseEnded

	if s.stats.Total == 0 {
		s.mu.Unlock()
		return Snapshot{}, false, nil
	}
	snap = Snapshot{
		Timestamp:  now.UnixMilli(),
		Stats:      s.stats,
		Config:     s.cfg.Clone(),
		DurationMs: s.elapsed().Milliseconds(),
	}
	sink := s.sink
	s.mu.Unlock()

	if sink != nil {
		if err := sink.Append(ctx, snap); err != nil {
			return snap, true, fmt.Errorf("append session log: %w", err)
		}
	}
	return snap, true, nil
}

// View returns the current display state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Stats returns a copy of the current statistics.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Elapsed returns the session time excluding paused spans.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed()
}

// LastActive is the time of the last player action.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Ended reports whether End has run.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhaseEnded
}

// ------------------------------ internals ----------------------------------

// view builds the display state. Caller holds mu.
func (s *Session) view() View {
	v := newView(s.ID, s.cfg, s.q)
	v.Phase = s.phase
	v.Feedback = s.feedback
	v.Streak = s.stats.Streak
	v.Accuracy = s.stats.Accuracy()
	v.Elapsed = FormatElapsed(s.elapsed())
	v.StatsVisible = s.statsVisible
	v.Paused = s.paused
	v.Stats = s.stats
	return v
}

func (s *Session) elapsed() time.Duration {
	ref := s.clock.Now()
	switch {
	case s.phase == PhaseEnded:
		ref = s.endedAt
	case s.paused:
		ref = s.pausedAt
	}
	return ref.Sub(s.stats.StartTime)
}

// nextQuestion shows a fresh question and clears feedback. Caller holds mu.
func (s *Session) nextQuestion() {
	s.q = s.gen.Generate(s.cfg)
	s.phase = PhaseAwaiting
	s.stopHide()
	s.feedback = Feedback{}
}

// setFeedback replaces the visible message; error-like kinds hide after ErrorFeedbackTTL.
func (s *Session) setFeedback(kind FeedbackKind, msg string) {
	s.stopHide()
	s.feedback = Feedback{Kind: kind, Message: msg, Visible: true}
	if kind == FeedbackError || kind == FeedbackValidation {
		s.hideSeq++
		seq := s.hideSeq
		s.hide = s.clock.AfterFunc(ErrorFeedbackTTL, func() { s.onHide(seq) })
	}
}

func (s *Session) scheduleTick() {
	s.tickSeq++
	seq := s.tickSeq
	s.tick = s.clock.AfterFunc(TickInterval, func() { s.onTick(seq) })
}

func (s *Session) scheduleAdvance() {
	s.stopAdvance()
	s.advanceSeq++
	seq := s.advanceSeq
	s.advance = s.clock.AfterFunc(AdvanceDelay, func() { s.onAdvance(seq) })
}

func (s *Session) stopTick() {
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	s.tickSeq++
}

func (s *Session) stopAdvance() {
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
	s.advanceSeq++
}

func (s *Session) stopHide() {
	if s.hide != nil {
		s.hide.Stop()
		s.hide = nil
	}
	s.hideSeq++
}

func (s *Session) onTick(seq uint64) {
	s.mu.Lock()
	if seq != s.tickSeq || s.phase == PhaseEnded || s.paused {
		s.mu.Unlock()
		return
	}
	s.scheduleTick()
	v := s.view()
	s.mu.Unlock()
	s.notify(EventTick, v)
}

func (s *Session) onAdvance(seq uint64) {
	s.mu.Lock()
	if seq != s.advanceSeq || s.phase != PhaseCorrect {
		s.mu.Unlock()
		return
	}
	s.advance = nil
	s.nextQuestion()
	v := s.view()
	s.mu.Unlock()
	s.notify(EventAdvance, v)
}

func (s *Session) onHide(seq uint64) {
	s.mu.Lock()
	if seq != s.hideSeq || s.phase == PhaseEnded {
		s.mu.Unlock()
		return
	}
	s.hide = nil
	s.feedback.Visible = false
	v := s.view()
	s.mu.Unlock()
	s.notify(EventFeedbackHidden, v)
}

func (s *Session) notify(kind EventKind, v View) {
	if s.listener != nil {
		s.listener(kind, v)
	}
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

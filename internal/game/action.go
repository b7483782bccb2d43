package game

import (
	"context"
	"fmt"
)

// ActionKind names a player command during play.
type ActionKind string

const (
	ActSubmitAnswer ActionKind = "submitAnswer"
	ActToggleStats  ActionKind = "toggleStats"
	ActPause        ActionKind = "pause"
	ActResume       ActionKind = "resume"
	ActSkip         ActionKind = "skip"
	ActEnd          ActionKind = "end"
)

// Action is one command; Input is only read by submitAnswer.
type Action struct {
	Kind  ActionKind `json:"action"`
	Input string     `json:"input,omitempty"`
}

// Dispatch applies a named action and returns the resulting view.
func (s *Session) Dispatch(ctx context.Context, a Action) (View, error) {
	switch a.Kind {
	case ActSubmitAnswer:
		return s.SubmitAnswer(a.Input)
	case ActToggleStats:
		return s.ToggleStats(), nil
	case ActPause:
		return s.Pause()
	case ActResume:
		return s.Resume()
	case ActSkip:
		return s.Skip()
	case ActEnd:
		_, _, err := s.End(ctx)
		return s.View(), err
	}
	return s.View(), fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
}

// internal/janitor/janitor.go
//
// Periodic cleanup of abandoned play sessions.
// A browser that closes its tab never sends "end"; the janitor ends sessions
// idle longer than the configured timeout so their timers stop and their
// snapshot still reaches the session log, then drops them from the registry.
// Expired setup hand-offs are pruned on the same schedule.

package janitor

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mathflash/internal/store"
)

// Janitor runs Sweep on a fixed interval.
type Janitor struct {
	scheduler *gocron.Scheduler
	sessions  store.Store
	handoffs  *store.Handoffs
	idle      time.Duration
	every     time.Duration
	now       func() time.Time
}

// New creates a janitor; call Start to schedule it.
func New(sessions store.Store, handoffs *store.Handoffs, idle, every time.Duration) *Janitor {
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		sessions:  sessions,
		handoffs:  handoffs,
		idle:      idle,
		every:     every,
		now:       time.Now,
	}
}

// Start schedules the sweep without blocking.
func (j *Janitor) Start() error {
	j.scheduler.SingletonModeAll()
	if _, err := j.scheduler.Every(j.every).Do(func() { j.Sweep(context.Background()) }); err != nil {
		return err
	}
	j.scheduler.StartAsync()
	return nil
}

// Stop terminates the schedule.
func (j *Janitor) Stop() {
	j.scheduler.Stop()
}

// Sweep ends idle sessions, removes finished ones and prunes hand-offs.
// It returns the number of sessions removed.
func (j *Janitor) Sweep(ctx context.Context) int {
	all, err := j.sessions.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("janitor: list sessions")
		return 0
	}

	removed := 0
	cutoff := j.now().Add(-j.idle)
	for _, s := range all {
		if !s.Ended() {
			if s.LastActive().After(cutoff) {
				continue
			}
			if _, recorded, err := s.End(ctx); err != nil {
				log.Warn().Err(err).Str("session", s.ID).Msg("janitor: end idle session")
			} else if recorded {
				log.Info().Str("session", s.ID).Msg("janitor: recorded idle session")
			}
		}
		if err := j.sessions.Delete(ctx, s.ID); err != nil {
			log.Warn().Err(err).Str("session", s.ID).Msg("janitor: delete session")
			continue
		}
		removed++
	}

	if j.handoffs != nil {
		if n := j.handoffs.Prune(); n > 0 {
			log.Debug().Int("handoffs", n).Msg("janitor: pruned hand-offs")
		}
	}
	return removed
}

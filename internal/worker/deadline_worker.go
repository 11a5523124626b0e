package worker

import (
	"context"
	"time"

	"github.com/examind/proctor-backend/internal/service"
	"github.com/jasonlvhit/gocron"
	"github.com/rs/zerolog"
)

// DeadlineWorker periodically force-submits sessions that ran past their
// deadline while no client was around to trigger the auto-submit.
type DeadlineWorker struct {
	sessions *service.SessionService
	interval time.Duration
	log      zerolog.Logger
}

func NewDeadlineWorker(sessions *service.SessionService, interval time.Duration, log zerolog.Logger) *DeadlineWorker {
	return &DeadlineWorker{
		sessions: sessions,
		interval: interval,
		log:      log,
	}
}

// Start schedules the sweep and returns the scheduler's stop channel.
// Send on the channel to halt the worker.
func (w *DeadlineWorker) Start() chan bool {
	seconds := uint64(w.interval.Seconds())
	if seconds == 0 {
		seconds = 30
	}

	if err := gocron.Every(seconds).Seconds().Do(w.sweep); err != nil {
		w.log.Error().Err(err).Msg("schedule deadline sweep")
	}

	w.log.Info().Uint64("interval_seconds", seconds).Msg("deadline worker started")
	return gocron.Start()
}

func (w *DeadlineWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	closed, err := w.sessions.SweepOverdue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("deadline sweep")
		return
	}
	if closed > 0 {
		w.log.Info().Int("closed", closed).Msg("overdue sessions auto-submitted")
	}
}

package sched

import (
	"context"
	"time"

	"telegram-reminder-bot/internal/usecase"

	"github.com/rs/zerolog"
)

// DispatchWorker drives the DueDispatcher on a fixed interval. The interval
// also serves as the staleness horizon: any claim older than one tick on
// startup belongs to a previous process and is recovered.
type DispatchWorker struct {
	interval time.Duration
	warmup   time.Duration
	uc       usecase.DispatchUseCase
	log      *zerolog.Logger
}

func NewDispatchWorker(interval, warmup time.Duration, uc usecase.DispatchUseCase, logger *zerolog.Logger) *DispatchWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	compLog := logger.With().Str("component", "DispatchWorker").Logger()
	return &DispatchWorker{interval: interval, warmup: warmup, uc: uc, log: &compLog}
}

func (w *DispatchWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting dispatch worker")

	if _, err := w.uc.RecoverStale(ctx, w.interval); err != nil {
		w.log.Error().Err(err).Msg("stale claim recovery failed")
	}

	if w.warmup > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.warmup):
		}
	}
	w.runTick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping dispatch worker")
			return ctx.Err()
		case <-ticker.C:
			w.runTick(ctx)
		}
	}
}

func (w *DispatchWorker) runTick(ctx context.Context) {
	sent, err := w.uc.RunOnce(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("dispatch tick failed")
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("reminders delivered")
	}
}

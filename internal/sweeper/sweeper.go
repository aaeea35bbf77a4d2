// Package sweeper delivers due reminders. It periodically scans for
// unsent reminders whose time has passed, emails each one, and marks it
// sent. A reminder whose delivery fails stays unsent and is retried on
// every subsequent sweep until it goes through.
package sweeper

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mediguide-ai/backend/internal/email"
	"github.com/mediguide-ai/backend/internal/metrics"
	"github.com/mediguide-ai/backend/internal/repository"
)

// defaultBody is used when a reminder was created without a message.
const defaultBody = "You have a reminder."

type Sweeper struct {
	reminders repository.ReminderRepository
	email     email.Sender
	logger    *slog.Logger
	schedule  cron.Schedule
	now       func() time.Time
	running   atomic.Bool
}

func New(reminders repository.ReminderRepository, emailSender email.Sender, logger *slog.Logger, schedule cron.Schedule) *Sweeper {
	return &Sweeper{
		reminders: reminders,
		email:     emailSender,
		logger:    logger.With("component", "sweeper"),
		schedule:  schedule,
		now:       time.Now,
	}
}

// SetClock is used by tests to control the due boundary.
func (s *Sweeper) SetClock(now func() time.Time) {
	s.now = now
}

// Start runs sweeps on the configured schedule until ctx is cancelled.
// Each sweep runs in its own goroutine so a slow email round-trip never
// delays the tick; an overlapping tick is skipped by the in-flight
// guard in Sweep.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started")

	for {
		wait := s.schedule.Next(s.now()).Sub(s.now())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			go s.Sweep(ctx)
		}
	}
}

// Sweep performs one scan-and-deliver pass. Failures are isolated per
// reminder: a bad address never blocks the rest of the batch, and the
// failed reminder is reconsidered on the next pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.SweepsSkippedTotal.Inc()
		s.logger.Warn("previous sweep still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	start := s.now()

	due, err := s.reminders.ListDue(ctx, start)
	if err != nil {
		s.logger.Error("list due reminders", "error", err)
		return
	}
	metrics.RemindersDue.Set(float64(len(due)))
	if len(due) == 0 {
		return
	}
	s.logger.Info("due reminders found", "count", len(due))

	for _, r := range due {
		body := r.Message
		if body == "" {
			body = defaultBody
		}

		if err := s.email.Send(ctx, r.Email, "Reminder: "+r.Title, body); err != nil {
			metrics.RemindersDeliveredTotal.WithLabelValues("failure").Inc()
			s.logger.Error("send reminder", "reminder_id", r.ID, "to", r.Email, "error", err)
			continue
		}

		// Mark sent only after a successful send. If this write fails the
		// reminder is re-sent next sweep — an accepted trade against ever
		// silently dropping one.
		if err := s.reminders.MarkSent(ctx, r.ID); err != nil {
			s.logger.Error("mark reminder sent", "reminder_id", r.ID, "error", err)
			continue
		}

		metrics.RemindersDeliveredTotal.WithLabelValues("success").Inc()
		s.logger.Info("reminder sent", "reminder_id", r.ID, "to", r.Email)
	}

	metrics.SweepCycleDuration.Observe(s.now().Sub(start).Seconds())
}

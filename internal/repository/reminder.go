package repository

import (
	"context"
	"time"

	"github.com/mediguide-ai/backend/internal/domain"
)

type ReminderRepository interface {
	Create(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Reminder, error)

	// ListDue returns unsent reminders whose remind_time is at or before
	// now, joined with the owner's email. There is no staleness cutoff:
	// a reminder overdue by days is still eligible.
	ListDue(ctx context.Context, now time.Time) ([]*domain.DueReminder, error)

	// MarkSent flips the one-shot sent flag. It is never reset.
	MarkSent(ctx context.Context, id string) error
}

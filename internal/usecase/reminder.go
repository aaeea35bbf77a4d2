package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mediguide-ai/backend/internal/domain"
	"github.com/mediguide-ai/backend/internal/repository"
)

type ReminderUsecase struct {
	users     repository.UserRepository
	reminders repository.ReminderRepository
	now       func() time.Time
}

func NewReminderUsecase(users repository.UserRepository, reminders repository.ReminderRepository) *ReminderUsecase {
	return &ReminderUsecase{
		users:     users,
		reminders: reminders,
		now:       time.Now,
	}
}

// SetClock is used by tests to pin "today" for HH:MM expansion.
func (u *ReminderUsecase) SetClock(now func() time.Time) {
	u.now = now
}

type CreateReminderInput struct {
	Email   string
	Title   string
	Message string
	Time    string // "HH:MM", combined with today's date
}

// CreateReminder schedules a one-shot reminder for a verified user. The
// HH:MM input becomes today's date at that wall-clock time; a time
// earlier than now is stored as-is and picked up by the very next sweep.
func (u *ReminderUsecase) CreateReminder(ctx context.Context, input CreateReminderInput) (*domain.Reminder, error) {
	user, err := u.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsVerified {
		return nil, domain.ErrUserNotVerified
	}

	hhmm, err := time.Parse("15:04", input.Time)
	if err != nil {
		return nil, domain.ErrInvalidRemindTime
	}

	now := u.now()
	remindAt := time.Date(now.Year(), now.Month(), now.Day(),
		hhmm.Hour(), hhmm.Minute(), 0, 0, now.Location())

	created, err := u.reminders.Create(ctx, &domain.Reminder{
		UserID:     user.ID,
		Title:      input.Title,
		Message:    input.Message,
		RemindTime: remindAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return created, nil
}

func (u *ReminderUsecase) ListByUser(ctx context.Context, userID string) ([]*domain.Reminder, error) {
	reminders, err := u.reminders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

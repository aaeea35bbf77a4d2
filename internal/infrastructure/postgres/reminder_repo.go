package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediguide-ai/backend/internal/domain"
)

type ReminderRepository struct {
	pool *pgxpool.Pool
}

func NewReminderRepository(pool *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{pool: pool}
}

func (r *ReminderRepository) Create(ctx context.Context, rem *domain.Reminder) (*domain.Reminder, error) {
	query := `
		INSERT INTO reminders (user_id, title, message, remind_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, title, message, remind_time, sent, created_at`

	row := r.pool.QueryRow(ctx, query, rem.UserID, rem.Title, rem.Message, rem.RemindTime)

	var created domain.Reminder
	err := row.Scan(&created.ID, &created.UserID, &created.Title, &created.Message,
		&created.RemindTime, &created.Sent, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert reminder: %w", err)
	}
	return &created, nil
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Reminder, error) {
	query := `
		SELECT id, user_id, title, message, remind_time, sent, created_at
		FROM reminders
		WHERE user_id = $1
		ORDER BY remind_time ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*domain.Reminder
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Title, &rem.Message,
			&rem.RemindTime, &rem.Sent, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, &rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return reminders, nil
}

func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*domain.DueReminder, error) {
	query := `
		SELECT r.id, r.title, r.message, u.email
		FROM reminders r
		JOIN users u ON r.user_id = u.id
		WHERE r.remind_time <= $1 AND NOT r.sent
		ORDER BY r.remind_time ASC`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	defer rows.Close()

	var due []*domain.DueReminder
	for rows.Next() {
		var d domain.DueReminder
		if err := rows.Scan(&d.ID, &d.Title, &d.Message, &d.Email); err != nil {
			return nil, fmt.Errorf("scan due reminder: %w", err)
		}
		due = append(due, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due reminders: %w", err)
	}
	return due, nil
}

func (r *ReminderRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE reminders SET sent = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

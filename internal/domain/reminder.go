package domain

import (
	"errors"
	"time"
)

var ErrInvalidRemindTime = errors.New("time must be in HH:MM format")

type Reminder struct {
	ID         string
	UserID     string
	Title      string
	Message    string
	RemindTime time.Time
	Sent       bool
	CreatedAt  time.Time
}

// DueReminder is a reminder joined with its owner's email, as selected
// by the delivery sweep.
type DueReminder struct {
	ID      string
	Title   string
	Message string
	Email   string
}

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mediguide-ai/backend/internal/domain"
	"github.com/mediguide-ai/backend/internal/usecase"
)

type reminderUsecaser interface {
	CreateReminder(ctx context.Context, input usecase.CreateReminderInput) (*domain.Reminder, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Reminder, error)
}

type ReminderHandler struct {
	reminders reminderUsecaser
	logger    *slog.Logger
}

func NewReminderHandler(reminders reminderUsecaser, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminders: reminders,
		logger:    logger.With("component", "reminder_handler"),
	}
}

type createReminderRequest struct {
	Email   string `json:"email"   binding:"required,email"`
	Title   string `json:"title"   binding:"required,max=256"`
	Message string `json:"message"`
	Time    string `json:"time"    binding:"required"`
}

type reminderResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	RemindTime time.Time `json:"remind_time"`
	Sent       bool      `json:"sent"`
}

func toReminderResponse(r *domain.Reminder) reminderResponse {
	return reminderResponse{
		ID:         r.ID,
		Title:      r.Title,
		Message:    r.Message,
		RemindTime: r.RemindTime,
		Sent:       r.Sent,
	}
}

// POST /api/reminders
func (h *ReminderHandler) Create(c *gin.Context) {
	var req createReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Email, title, and time are required", codeMissingFields))
		return
	}

	created, err := h.reminders.CreateReminder(c.Request.Context(), usecase.CreateReminderInput{
		Email:   req.Email,
		Title:   req.Title,
		Message: req.Message,
		Time:    req.Time,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, errorBody("Verified user not found", codeUserNotFound))
		case errors.Is(err, domain.ErrUserNotVerified):
			c.JSON(http.StatusBadRequest, errorBody("Verified user not found", codeUserUnverified))
		case errors.Is(err, domain.ErrInvalidRemindTime):
			c.JSON(http.StatusBadRequest, errorBody(domain.ErrInvalidRemindTime.Error(), codeInvalidTime))
		default:
			h.logger.Error("create reminder", "error", err)
			c.JSON(http.StatusInternalServerError, errorBody("Failed to save reminder", codeInternal))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": created.ID})
}

// GET /api/reminders — requires a Bearer token; lists the caller's own
// reminders.
func (h *ReminderHandler) List(c *gin.Context) {
	userID := c.GetString("userID")

	reminders, err := h.reminders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list reminders", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(errInternalServer, codeInternal))
		return
	}

	resp := make([]reminderResponse, 0, len(reminders))
	for _, r := range reminders {
		resp = append(resp, toReminderResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"reminders": resp})
}

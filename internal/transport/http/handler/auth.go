package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mediguide-ai/backend/internal/domain"
	"github.com/mediguide-ai/backend/internal/metrics"
	"github.com/mediguide-ai/backend/internal/usecase"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, input usecase.VerifyOTPInput) (*domain.User, string, error)
}

type AuthHandler struct {
	auth   authUsecaser
	logger *slog.Logger
}

func NewAuthHandler(auth authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With("component", "auth_handler"),
	}
}

type sendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

// POST /send-otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Valid email is required", codeInvalidEmail))
		return
	}

	if err := h.auth.SendOTP(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, errorBody(domain.ErrInvalidEmail.Error(), codeInvalidEmail))
		case errors.Is(err, domain.ErrDeliveryFailed):
			h.logger.Error("send otp", "error", err)
			c.JSON(http.StatusInternalServerError, errorBody("Failed to send OTP. Please try again.", codeDeliveryFailed))
		default:
			h.logger.Error("send otp", "error", err)
			c.JSON(http.StatusInternalServerError, errorBody(errInternalServer, codeInternal))
		}
		return
	}

	metrics.OTPIssuedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent"})
}

type verifyOTPRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	OTP      string `json:"otp"      binding:"required,len=6,numeric"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"    binding:"required"`
	Password string `json:"password"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

// POST /verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Missing required fields", codeMissingFields))
		return
	}

	user, token, err := h.auth.VerifyOTP(c.Request.Context(), usecase.VerifyOTPInput{
		Email:    req.Email,
		Code:     req.OTP,
		FullName: req.FullName,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOTPNotFound):
			metrics.OTPVerifiedTotal.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusBadRequest, errorBody(domain.ErrOTPNotFound.Error(), codeOTPNotFound))
		case errors.Is(err, domain.ErrOTPExpired):
			metrics.OTPVerifiedTotal.WithLabelValues("expired").Inc()
			c.JSON(http.StatusBadRequest, errorBody(domain.ErrOTPExpired.Error(), codeOTPExpired))
		case errors.Is(err, domain.ErrOTPMismatch):
			metrics.OTPVerifiedTotal.WithLabelValues("mismatch").Inc()
			c.JSON(http.StatusBadRequest, errorBody(domain.ErrOTPMismatch.Error(), codeOTPMismatch))
		default:
			h.logger.Error("verify otp", "error", err)
			c.JSON(http.StatusInternalServerError, errorBody("Account setup failed", codeInternal))
		}
		return
	}

	metrics.OTPVerifiedTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    toUserResponse(user),
	})
}

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mediguide-ai/backend/internal/domain"
)

type userFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type UserHandler struct {
	users  userFinder
	logger *slog.Logger
}

func NewUserHandler(users userFinder, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With("component", "user_handler"),
	}
}

// GET /api/me — returns the profile for the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, errorBody("User not found", codeUserNotFound))
			return
		}
		h.logger.Error("find user", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(errInternalServer, codeInternal))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

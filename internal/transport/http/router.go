package httptransport

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mediguide-ai/backend/internal/transport/http/handler"
	"github.com/mediguide-ai/backend/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	reminderHandler *handler.ReminderHandler,
	planHandler *handler.HealthPlanHandler,
	userHandler *handler.UserHandler,
	jwtKey []byte,
	staticDir string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// OTP signup/login
	r.POST("/send-otp", authHandler.SendOTP)
	r.POST("/verify-otp", authHandler.VerifyOTP)

	// Public API — the front-end identifies users by email in the body.
	r.POST("/api/reminders", reminderHandler.Create)
	r.POST("/api/health-plan", planHandler.Generate)

	// Token-protected API
	authMW := middleware.Auth(jwtKey)
	r.GET("/api/me", authMW, userHandler.Me)
	r.GET("/api/reminders", authMW, reminderHandler.List)

	if staticDir != "" {
		r.NoRoute(spaFallback(staticDir))
	}

	return r
}

// spaFallback serves files from dir, falling back to index.html for
// client-side routes. API paths never reach here because gin matches
// registered routes first.
func spaFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() &&
			strings.HasPrefix(path, filepath.Clean(dir)) {
			c.File(path)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mediguide-ai/backend/config"
	"github.com/mediguide-ai/backend/internal/email"
	"github.com/mediguide-ai/backend/internal/health"
	"github.com/mediguide-ai/backend/internal/infrastructure/postgres"
	ctxlog "github.com/mediguide-ai/backend/internal/log"
	"github.com/mediguide-ai/backend/internal/metrics"
	"github.com/mediguide-ai/backend/internal/otp"
	httptransport "github.com/mediguide-ai/backend/internal/transport/http"
	"github.com/mediguide-ai/backend/internal/transport/http/handler"
	"github.com/mediguide-ai/backend/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	// Auth / OTP
	userRepo := postgres.NewUserRepository(pool)
	codes := otp.NewMemoryStore()
	authUsecase := usecase.NewAuthUsecase(userRepo, codes, sender, []byte(cfg.JWTSecret))
	authUsecase.SetOTPTTL(time.Duration(cfg.OTPTTLMin) * time.Minute)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Reminders
	reminderRepo := postgres.NewReminderRepository(pool)
	reminderUsecase := usecase.NewReminderUsecase(userRepo, reminderRepo)
	reminderHandler := handler.NewReminderHandler(reminderUsecase, logger)

	// Health plan (LLM proxy)
	planUsecase := usecase.NewHealthPlanUsecase(cfg.OpenAIAPIKey)
	planHandler := handler.NewHealthPlanHandler(planUsecase, logger)

	userHandler := handler.NewUserHandler(userRepo, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(
			logger, authHandler, reminderHandler, planHandler, userHandler,
			[]byte(cfg.JWTSecret), cfg.StaticDir,
		),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}

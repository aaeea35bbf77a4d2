package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mediguide-ai/backend/internal/domain"
)

type healthPlanner interface {
	GeneratePlan(ctx context.Context, disease, location string) (*domain.HealthPlan, error)
}

type HealthPlanHandler struct {
	planner healthPlanner
	logger  *slog.Logger
}

func NewHealthPlanHandler(planner healthPlanner, logger *slog.Logger) *HealthPlanHandler {
	return &HealthPlanHandler{
		planner: planner,
		logger:  logger.With("component", "health_plan_handler"),
	}
}

type healthPlanRequest struct {
	Disease  string `json:"disease" binding:"required,max=512"`
	Location string `json:"location"`
}

// POST /api/health-plan
func (h *HealthPlanHandler) Generate(c *gin.Context) {
	var req healthPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Disease is required", codeMissingFields))
		return
	}

	plan, err := h.planner.GeneratePlan(c.Request.Context(), req.Disease, req.Location)
	if err != nil {
		h.logger.Error("generate health plan", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody("Failed to generate health plan", codeInternal))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": plan})
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/logger"
)

// Version is reported by the health endpoint. Overridden at build time with
// -ldflags "-X fintrack/internal/handlers.Version=...".
var Version = "dev"

// healthPingTimeout bounds the store ping of a health check.
const healthPingTimeout = 5 * time.Second

// Pinger checks that the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and store status.
type HealthHandler struct {
	store       Pinger
	environment string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger, environment string) *HealthHandler {
	return &HealthHandler{store: store, environment: environment}
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status      string    `json:"status" example:"ok"`
	Environment string    `json:"environment" example:"production"`
	Database    string    `json:"database" example:"connected"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version" example:"dev"`
}

// Health handles the health check
// @Summary     Health check
// @Description Service status and database connectivity
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse "Healthy"
// @Failure     503 {object} HealthResponse "Database disconnected"
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:      "ok",
		Environment: h.environment,
		Database:    "connected",
		Timestamp:   time.Now().UTC(),
		Version:     Version,
	}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		logger.Get().Warnw("health check: database ping failed", "error", err.Error())
		resp.Status = "error"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}

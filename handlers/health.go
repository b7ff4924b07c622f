package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Health godoc
// @Summary      Liveness and dependency status
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}  "Database unavailable"
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	database := "connected"
	if err := h.pingDatabase(ctx); err != nil {
		h.logger.Warn("Health check: database unavailable", zap.Error(err))
		status, code, database = "degraded", http.StatusServiceUnavailable, "unavailable"
	}

	c.JSON(code, gin.H{
		"status":         status,
		"timestamp":      time.Now().UTC().Format(time.RFC3339Nano),
		"environment":    h.appEnv,
		"database":       database,
		"realtime_cache": h.realtime.CacheStatus(ctx),
	})
}

func (h *Handler) pingDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

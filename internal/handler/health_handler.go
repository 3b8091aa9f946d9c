package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// defaultPingTimeout bounds the database ping of a health check.
const defaultPingTimeout = 2 * time.Second

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler with the given database pool.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: defaultPingTimeout}
}

// Check reports whether the storefront can reach its database.
// Returns 200 {"status":"healthy","database":"up"} or
// 503 {"status":"unhealthy","database":"down","error":"..."}.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Error().Err(err).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "down",
			"error":    "database connection failed",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"database": "up",
	})
}

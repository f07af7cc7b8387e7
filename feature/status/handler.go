package status

import (
	"errors"

	"shaper-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// Handler handles HTTP requests for cycle status.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/healthz", h.HandleHealth)

	group := app.Group("/status")
	group.Get("/", h.HandleStatus)
	group.Post("/cycle", h.HandleRunCycle)
	group.Get("/history", h.HandleHistory)
}

// HandleHealth is a liveness check.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleStatus returns the last cycle report and journal health.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.State())
}

// HandleRunCycle runs a cycle now. ?dry_run=true reconciles without writing.
// Concurrent requests share one cycle.
func (h *Handler) HandleRunCycle(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.QueryBool("dry_run", false)
	l.Info("Manual cycle requested", zap.Bool("dry_run", dryRun))

	report, err := h.service.RunNow(c.UserContext(), dryRun)
	if err != nil {
		l.Error("Manual cycle failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"report": report,
		})
	}
	return c.JSON(report)
}

// HandleHistory lists journaled cycles, newest first.
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 || limit > maxHistoryLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be between 1 and 500"})
	}

	runs, err := h.service.Runs(c.UserContext(), limit)
	if errors.Is(err, ErrJournalDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to read cycle history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"runs": runs})
}

package circuits

import (
	"errors"

	"shaper-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the circuit inventory.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the circuit routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/circuits")
	group.Get("/", h.HandleList)
	group.Get("/:name", h.HandleGet)
}

// HandleList lists circuits. ?parent= filters by parent node, ?q= searches
// names, addresses and MACs.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.List(Filter{ParentNode: c.Query("parent"), Search: c.Query("q")})
	if err != nil {
		l.Error("Failed to load inventory", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"count":    len(records),
		"circuits": records,
	})
}

// HandleGet returns one circuit and its history.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	detail, err := h.service.Get(c.UserContext(), c.Params("name"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to load circuit", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(detail)
}

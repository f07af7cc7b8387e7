package status

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the status feature.
func NewFeature(runner Runner, history History, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(NewService(runner, history, logger))}
}

func (f *Feature) Name() string {
	return "status"
}

func (f *Feature) IsEnabled() bool {
	return true
}

func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

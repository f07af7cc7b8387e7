package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName carries the API key on requests.
const HeaderName = "X-API-Key"

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the shared key. Empty disables the check.
	ApiKey string
	// Skip lets selected paths through without a key, e.g. health checks.
	Skip func(c *fiber.Ctx) bool
}

// New returns a middleware that rejects requests without the configured key.
// The key is read from the X-API-Key header, then the api_key query parameter.
func New(cfg Config) fiber.Handler {
	want := []byte(cfg.ApiKey)

	return func(c *fiber.Ctx) error {
		if len(want) == 0 || (cfg.Skip != nil && cfg.Skip(c)) {
			return c.Next()
		}

		got := c.Get(HeaderName)
		if got == "" {
			got = c.Query("api_key")
		}
		if got == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing API key"})
		}
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid API key"})
		}
		return c.Next()
	}
}

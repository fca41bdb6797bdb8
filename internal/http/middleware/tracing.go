package middleware

import (
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
)

// Tracing starts a server span per request, skipping the given paths.
func Tracing(serviceName string, skip ...string) fiber.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return otelfiber.Middleware(
		otelfiber.WithServerName(serviceName),
		otelfiber.WithNext(func(c *fiber.Ctx) bool {
			_, ok := skipped[c.Path()]
			return ok
		}),
	)
}

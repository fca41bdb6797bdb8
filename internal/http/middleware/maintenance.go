package middleware

import "github.com/gofiber/fiber/v2"

// Maintenance rejects every request with 503 while enabled, except the
// listed paths (health checks, metrics).
func Maintenance(enabled bool, allow ...string) fiber.Handler {
	open := make(map[string]struct{}, len(allow))
	for _, p := range allow {
		open[p] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if !enabled || c.Method() == fiber.MethodOptions {
			return c.Next()
		}
		if _, ok := open[c.Path()]; ok {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, "120")
		return fiber.NewError(fiber.StatusServiceUnavailable, "service under maintenance")
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the configured origins with credentials. With no origins
// configured any origin is allowed, without credentials.
func CORS(origins []string) fiber.Handler {
	cfg := cors.Config{
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization," + RequestIDHeader,
		ExposeHeaders: RequestIDHeader,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = "*"
	} else {
		cfg.AllowOrigins = strings.Join(origins, ",")
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

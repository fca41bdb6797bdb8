package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Logger writes one structured line per request: request_id, method, path,
// status and latency in milliseconds. 5xx responses log at error level and
// 4xx at warn.
func Logger(l zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := statusOf(c, err)
		ev := l.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = l.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = l.Warn()
		}
		ev.Str("request_id", RequestIDFrom(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Str("ip", c.IP()).
			Msg("request")
		return err
	}
}

// LoggerWithWriter is Logger with a JSON logger on w.
func LoggerWithWriter(w io.Writer) fiber.Handler {
	return Logger(zerolog.New(w).With().Timestamp().Logger())
}

// statusOf returns the status the client will see. An error returned down
// the chain has not been rendered yet, so its code wins.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

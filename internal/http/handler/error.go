package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"rentalapi/internal/http/middleware"
	"rentalapi/internal/service"
	"rentalapi/internal/upload"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// messagePayload is returned by deletes.
type messagePayload struct {
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response. message must be safe
// to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// respondError maps service and upload errors to HTTP responses. Anything
// unclassified is returned as is; ErrorHandler logs it and answers 500.
func respondError(c *fiber.Ctx, err error) error {
	if handled, ok := classified(c, err); ok {
		return handled
	}
	return err
}

// classified writes the response for a known error kind. ok is false when
// err matches none.
func classified(c *fiber.Ctx, err error) (out error, ok bool) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(errorPayload{
			RequestID: middleware.RequestIDFrom(c),
			Error:     errorEnvelope{Code: "VALIDATION_ERROR", Message: verr.Error(), Field: verr.Field},
		}), true
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error()), true
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error()), true
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", err.Error()), true
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"), true
	case errors.Is(err, service.ErrAuthDisabled):
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", err.Error()), true
	case errors.Is(err, upload.ErrTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the upload limit"), true
	}
	return nil, false
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for errors that escape handlers and middleware.
func ErrorHandler(l zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			if out, ok := classified(c, err); ok {
				return out
			}
			l.Error().Err(err).
				Str("request_id", middleware.RequestIDFrom(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("unhandled error")
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		switch fe.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, fe.Code, "UNAUTHORIZED", fe.Message)
		case fiber.StatusForbidden:
			return writeError(c, fe.Code, "FORBIDDEN", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "FILE_TOO_LARGE", "request body exceeds the upload limit")
		case fiber.StatusServiceUnavailable:
			return writeError(c, fe.Code, "SERVICE_UNAVAILABLE", fe.Message)
		default:
			if fe.Code >= fiber.StatusInternalServerError {
				l.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("server error")
				return writeError(c, fe.Code, "INTERNAL_ERROR", "internal server error")
			}
			return writeError(c, fe.Code, "ERROR", fe.Message)
		}
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"rentalapi/internal/auth"
)

const principalLocalKey = "principal"

// Auth requires a valid bearer token and stores the caller's principal.
func Auth(v auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		p, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals(principalLocalKey, p)
		return c.Next()
	}
}

// RequireRole lets through principals holding one of roles. It must run
// after Auth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		for _, r := range roles {
			if strings.EqualFold(p.Role, r) {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// PrincipalFrom returns the principal stored by Auth.
func PrincipalFrom(c *fiber.Ctx) (auth.Principal, bool) {
	p, ok := c.Locals(principalLocalKey).(auth.Principal)
	return p, ok
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"rentalapi/internal/http/middleware"
	"rentalapi/internal/model"
	"rentalapi/internal/service"
)

// Register creates an operator account.
//
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Account"
// @Success 201 {object} model.UserSummary
// @Failure 409 {object} errorPayload
// @Router /api/auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := bindJSON(c, &in); err != nil {
			return respondError(c, err)
		}
		u, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// Login exchanges credentials for a bearer token.
//
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "Credentials"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} errorPayload
// @Router /api/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LoginInput
		if err := bindJSON(c, &in); err != nil {
			return respondError(c, err)
		}
		res, err := svc.Login(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// registerUsers mounts the user routes on r, which must already verify the
// bearer token. Changing or removing accounts takes the admin role.
func registerUsers(r fiber.Router, svc service.UserService) {
	admin := middleware.RequireRole(model.RoleAdmin)
	r.Get("/", respond(svc.List))
	r.Get("/:id", getByID(svc.Get))
	r.Put("/:id", admin, func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var in service.UserUpdateInput
		if err := bindJSON(c, &in); err != nil {
			return respondError(c, err)
		}
		u, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	})
	r.Delete("/:id", admin, deleteByID(svc.Delete, "Usuario eliminado correctamente"))
}

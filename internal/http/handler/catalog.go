package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// crudService is the shape shared by the reference entity services.
type crudService[T, I any] interface {
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id int64, in I) (*T, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context) ([]T, error)
}

// registerCRUD mounts list, get, create, update and delete for one entity
// with JSON bodies.
func registerCRUD[T, I any](r fiber.Router, svc crudService[T, I], deleted string) {
	r.Get("/", respond(svc.List))
	r.Get("/:id", getByID(svc.Get))
	r.Post("/", func(c *fiber.Ctx) error {
		var in I
		if err := bindJSON(c, &in); err != nil {
			return respondError(c, err)
		}
		out, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	})
	r.Put("/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var in I
		if err := bindJSON(c, &in); err != nil {
			return respondError(c, err)
		}
		out, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	})
	r.Delete("/:id", deleteByID(svc.Delete, deleted))
}

func getByID[T any](get func(ctx context.Context, id int64) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		out, err := get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

func deleteByID(del func(ctx context.Context, id int64) error, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		if err := del(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(messagePayload{Message: message})
	}
}

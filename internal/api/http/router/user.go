package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/handler"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	uh *handler.UserHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	users := api.Group("/users", authRequired)

	// Any authenticated user can resolve their own identity.
	users.Get("/me", uh.Me)

	users.Get("/", requirePerm(authorize.ResourceUser, authorize.ActionList), uh.List)
	users.Post("/", requirePerm(authorize.ResourceUser, authorize.ActionCreate), uh.Create)
	users.Patch("/:id/role", requirePerm(authorize.ResourceUser, authorize.ActionUpdate), uh.SetRole)
	users.Delete("/:id", requirePerm(authorize.ResourceUser, authorize.ActionDelete), uh.Delete)
}

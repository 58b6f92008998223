package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/handler"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

func (r *Router) registerSettingsRoutes(
	api fiber.Router,
	sh *handler.SettingsHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	s := api.Group("/settings", authRequired)
	s.Get("/", requirePerm(authorize.ResourceSettings, authorize.ActionRead), sh.Get)
	s.Put("/", requirePerm(authorize.ResourceSettings, authorize.ActionUpdate), sh.Update)
}

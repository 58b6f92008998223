package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/handler"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

func (r *Router) registerReferenceRoutes(
	api fiber.Router,
	ph *handler.ProcessHandler,
	rh *handler.ReasonHandler,
	psh *handler.PsychologistHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	procs := api.Group("/processes", authRequired)
	procs.Get("/", requirePerm(authorize.ResourceProcess, authorize.ActionList), ph.List)
	procs.Post("/", requirePerm(authorize.ResourceProcess, authorize.ActionCreate), ph.Create)
	procs.Get("/:id", requirePerm(authorize.ResourceProcess, authorize.ActionRead), ph.GetByID)
	procs.Put("/:id", requirePerm(authorize.ResourceProcess, authorize.ActionUpdate), ph.Update)
	procs.Patch("/:id/active", requirePerm(authorize.ResourceProcess, authorize.ActionUpdate), ph.SetActive)
	procs.Delete("/:id", requirePerm(authorize.ResourceProcess, authorize.ActionDelete), ph.Delete)

	reasons := api.Group("/consultation-reasons", authRequired)
	reasons.Get("/", requirePerm(authorize.ResourceReason, authorize.ActionList), rh.List)
	reasons.Post("/", requirePerm(authorize.ResourceReason, authorize.ActionCreate), rh.Create)
	reasons.Get("/:id", requirePerm(authorize.ResourceReason, authorize.ActionRead), rh.GetByID)
	reasons.Put("/:id", requirePerm(authorize.ResourceReason, authorize.ActionUpdate), rh.Update)
	reasons.Patch("/:id/active", requirePerm(authorize.ResourceReason, authorize.ActionUpdate), rh.SetActive)
	reasons.Delete("/:id", requirePerm(authorize.ResourceReason, authorize.ActionDelete), rh.Delete)

	psychs := api.Group("/psychologists", authRequired)
	psychs.Get("/", requirePerm(authorize.ResourcePsychologist, authorize.ActionList), psh.List)
	psychs.Post("/", requirePerm(authorize.ResourcePsychologist, authorize.ActionCreate), psh.Create)
	psychs.Get("/:id", requirePerm(authorize.ResourcePsychologist, authorize.ActionRead), psh.GetByID)
	psychs.Put("/:id", requirePerm(authorize.ResourcePsychologist, authorize.ActionUpdate), psh.Update)
	psychs.Delete("/:id", requirePerm(authorize.ResourcePsychologist, authorize.ActionDelete), psh.Delete)
}

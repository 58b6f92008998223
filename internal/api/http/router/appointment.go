package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/handler"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

func (r *Router) registerAppointmentRoutes(
	api fiber.Router,
	ah *handler.AppointmentHandler,
	eh *handler.ExportHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	appts := api.Group("/appointments", authRequired)

	appts.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ah.List)
	appts.Post("/", requirePerm(authorize.ResourceAppointment, authorize.ActionCreate), ah.Create)

	// Fixed paths before the :id group so they are not captured as ids.
	appts.Get("/views/dashboard", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ah.Dashboard)
	appts.Get("/export", requirePerm(authorize.ResourceAppointment, authorize.ActionExport), eh.Appointments)

	a := appts.Group("/:id")
	a.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.GetByID)
	a.Put("/", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Update)
	a.Patch("/status", requirePerm(authorize.ResourceAppointment, authorize.ActionTransition), ah.Transition)
	a.Post("/document", requirePerm(authorize.ResourceAppointment, authorize.ActionAttach), ah.UploadDocument)
	a.Get("/document/url", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.DocumentURL)
	a.Delete("/", requirePerm(authorize.ResourceAppointment, authorize.ActionDelete), ah.Delete)
}

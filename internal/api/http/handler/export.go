package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/service/export"
)

type ExportHandler struct {
	svc export.Service
}

func NewExportHandler(svc export.Service) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// GET /appointments/export
func (h *ExportHandler) Appointments(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	data, err := h.svc.Appointments(c.Context(), actor, filtersFromQuery(c))
	if err != nil {
		return mapAppointmentError(c, err)
	}

	filename := fmt.Sprintf("citas_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

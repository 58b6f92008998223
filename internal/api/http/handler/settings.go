package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/service/settings"
)

type SettingsHandler struct {
	svc settings.Service
}

func NewSettingsHandler(svc settings.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// GET /settings
func (h *SettingsHandler) Get(c fiber.Ctx) error {
	s, err := h.svc.Get(c.Context())
	if err != nil {
		return internalError(c)
	}
	return ok(c, s)
}

// PUT /settings
func (h *SettingsHandler) Update(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body model.SystemSettings
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	s, err := h.svc.Update(c.Context(), actor, body)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrPermissionDenied):
			return forbidden(c)
		case errors.Is(err, settings.ErrValidation):
			return badRequest(c, err.Error())
		default:
			return internalError(c)
		}
	}
	return ok(c, s)
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/service/psychologist"
)

type PsychologistHandler struct {
	svc psychologist.Service
}

func NewPsychologistHandler(svc psychologist.Service) *PsychologistHandler {
	return &PsychologistHandler{svc: svc}
}

func mapPsychologistError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, psychologist.ErrNotFound):
		return notFound(c, "psychologist not found")
	case errors.Is(err, psychologist.ErrPermissionDenied):
		return forbidden(c)
	case errors.Is(err, psychologist.ErrValidation):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

type psychologistBody struct {
	FullName           string `json:"fullName"`
	DNI                string `json:"dni"`
	InstitutionalEmail string `json:"institutionalEmail"`
	PersonalEmail      string `json:"personalEmail"`
	Phone              string `json:"phone"`
	UserID             string `json:"userId"`
}

// GET /psychologists
func (h *PsychologistHandler) List(c fiber.Ctx) error {
	psychs, err := h.svc.List(c.Context())
	if err != nil {
		return mapPsychologistError(c, err)
	}
	return ok(c, psychs)
}

// GET /psychologists/:id
func (h *PsychologistHandler) GetByID(c fiber.Ctx) error {
	p, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapPsychologistError(c, err)
	}
	return ok(c, p)
}

// POST /psychologists
func (h *PsychologistHandler) Create(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body psychologistBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Create(c.Context(), actor, psychologist.SaveRequest(body))
	if err != nil {
		return mapPsychologistError(c, err)
	}
	return created(c, p)
}

// PUT /psychologists/:id
func (h *PsychologistHandler) Update(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body psychologistBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Update(c.Context(), actor, c.Params("id"), psychologist.SaveRequest(body))
	if err != nil {
		return mapPsychologistError(c, err)
	}
	return ok(c, p)
}

// DELETE /psychologists/:id
func (h *PsychologistHandler) Delete(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	if err := h.svc.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return mapPsychologistError(c, err)
	}
	return noContent(c)
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/service/process"
)

type ProcessHandler struct {
	svc process.Service
}

func NewProcessHandler(svc process.Service) *ProcessHandler {
	return &ProcessHandler{svc: svc}
}

func mapProcessError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, process.ErrNotFound):
		return notFound(c, "process not found")
	case errors.Is(err, process.ErrPermissionDenied):
		return forbidden(c)
	case errors.Is(err, process.ErrValidation):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

type processBody struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsActive  bool   `json:"isActive"`
}

// GET /processes
func (h *ProcessHandler) List(c fiber.Ctx) error {
	if c.Query("active") == "true" {
		procs, err := h.svc.Active(c.Context())
		if err != nil {
			return mapProcessError(c, err)
		}
		return ok(c, procs)
	}

	procs, err := h.svc.List(c.Context())
	if err != nil {
		return mapProcessError(c, err)
	}
	return ok(c, procs)
}

// GET /processes/:id
func (h *ProcessHandler) GetByID(c fiber.Ctx) error {
	proc, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapProcessError(c, err)
	}
	return ok(c, proc)
}

// POST /processes
func (h *ProcessHandler) Create(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body processBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	proc, err := h.svc.Create(c.Context(), actor, process.SaveRequest(body))
	if err != nil {
		return mapProcessError(c, err)
	}
	return created(c, proc)
}

// PUT /processes/:id
func (h *ProcessHandler) Update(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body processBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	proc, err := h.svc.Update(c.Context(), actor, c.Params("id"), process.SaveRequest(body))
	if err != nil {
		return mapProcessError(c, err)
	}
	return ok(c, proc)
}

// PATCH /processes/:id/active
func (h *ProcessHandler) SetActive(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	proc, err := h.svc.SetActive(c.Context(), actor, c.Params("id"), body.IsActive)
	if err != nil {
		return mapProcessError(c, err)
	}
	return ok(c, proc)
}

// DELETE /processes/:id
func (h *ProcessHandler) Delete(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	if err := h.svc.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return mapProcessError(c, err)
	}
	return noContent(c)
}

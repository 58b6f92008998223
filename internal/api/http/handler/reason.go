package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/service/reason"
)

type ReasonHandler struct {
	svc reason.Service
}

func NewReasonHandler(svc reason.Service) *ReasonHandler {
	return &ReasonHandler{svc: svc}
}

func mapReasonError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, reason.ErrNotFound):
		return notFound(c, "consultation reason not found")
	case errors.Is(err, reason.ErrPermissionDenied):
		return forbidden(c)
	case errors.Is(err, reason.ErrValidation):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

type reasonBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

// GET /consultation-reasons
func (h *ReasonHandler) List(c fiber.Ctx) error {
	if c.Query("active") == "true" {
		reasons, err := h.svc.Active(c.Context())
		if err != nil {
			return mapReasonError(c, err)
		}
		return ok(c, reasons)
	}

	reasons, err := h.svc.List(c.Context())
	if err != nil {
		return mapReasonError(c, err)
	}
	return ok(c, reasons)
}

// GET /consultation-reasons/:id
func (h *ReasonHandler) GetByID(c fiber.Ctx) error {
	r, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapReasonError(c, err)
	}
	return ok(c, r)
}

// POST /consultation-reasons
func (h *ReasonHandler) Create(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body reasonBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	r, err := h.svc.Create(c.Context(), actor, reason.SaveRequest(body))
	if err != nil {
		return mapReasonError(c, err)
	}
	return created(c, r)
}

// PUT /consultation-reasons/:id
func (h *ReasonHandler) Update(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body reasonBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	r, err := h.svc.Update(c.Context(), actor, c.Params("id"), reason.SaveRequest(body))
	if err != nil {
		return mapReasonError(c, err)
	}
	return ok(c, r)
}

// PATCH /consultation-reasons/:id/active
func (h *ReasonHandler) SetActive(c fiber.Ctx) error {
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

	r, err := h.svc.SetActive(c.Context(), actor, c.Params("id"), body.IsActive)
	if err != nil {
		return mapReasonError(c, err)
	}
	return ok(c, r)
}

// DELETE /consultation-reasons/:id
func (h *ReasonHandler) Delete(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	if err := h.svc.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return mapReasonError(c, err)
	}
	return noContent(c)
}

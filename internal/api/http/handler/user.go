package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/service/user"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return notFound(c, "user not found")
	case errors.Is(err, user.ErrPermissionDenied):
		return forbidden(c)
	case errors.Is(err, user.ErrEmailTaken):
		return conflict(c, err.Error())
	case errors.Is(err, user.ErrValidation):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /users
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.svc.List(c.Context())
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, users)
}

// GET /users/me
func (h *UserHandler) Me(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	u, err := h.svc.GetByID(c.Context(), actor.UserID)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, fiber.Map{
		"user":           u,
		"roleName":       authorize.RoleDisplayNamesES[u.Role],
		"psychologistId": actor.PsychologistID,
	})
}

// POST /users
func (h *UserHandler) Create(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Role        string `json:"role"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.svc.Create(c.Context(), actor, user.CreateRequest{
		Email:       body.Email,
		DisplayName: body.DisplayName,
		Role:        authorize.Role(body.Role),
	})
	if err != nil {
		return mapUserError(c, err)
	}
	return created(c, u)
}

// PATCH /users/:id/role
func (h *UserHandler) SetRole(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.svc.SetRole(c.Context(), actor, c.Params("id"), authorize.Role(body.Role))
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, u)
}

// DELETE /users/:id
func (h *UserHandler) Delete(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	if err := h.svc.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return mapUserError(c, err)
	}
	return noContent(c)
}

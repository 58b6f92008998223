package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/service/psychologist"
	"github.com/ceprunsa/consultorio_backend/internal/service/user"
	pasetotoken "github.com/ceprunsa/consultorio_backend/pkg/paseto"
)

const LocalActor = "auth.actor"

// AuthRequired validates a Bearer PASETO access token and resolves the acting
// user: the user document provides the role, and a linked psychologist record
// (matched by userId) scopes psychologist-role visibility. On success the
// resolved model.Actor is stored in c.Locals(LocalActor).
func AuthRequired(mgr *pasetotoken.Manager, users user.Service, psychs psychologist.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}

		claims, err := mgr.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		u, err := users.GetByID(c.Context(), claims.UserID)
		if err != nil {
			// A token for a deleted user is no longer valid.
			if errors.Is(err, user.ErrNotFound) {
				return fiber.ErrUnauthorized
			}
			return fiber.ErrInternalServerError
		}

		actor := model.Actor{
			UserID: u.ID,
			Email:  u.Email,
			Role:   u.Role,
		}

		if p, err := psychs.ByUserID(c.Context(), u.ID); err == nil {
			actor.PsychologistID = p.ID
		} else if !errors.Is(err, psychologist.ErrNotFound) {
			return fiber.ErrInternalServerError
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// ActorFromFiber retrieves the resolved actor from Fiber locals.
func ActorFromFiber(c fiber.Ctx) (model.Actor, bool) {
	v := c.Locals(LocalActor)
	actor, ok := v.(model.Actor)
	return actor, ok
}

package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
)

// Success payloads are wrapped in {"data": ...}; errors in {"error": ...}.

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func errorJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func badRequest(c fiber.Ctx, msg string) error {
	return errorJSON(c, fiber.StatusBadRequest, msg)
}

func unauthorized(c fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "unauthorized")
}

func forbidden(c fiber.Ctx) error {
	return errorJSON(c, fiber.StatusForbidden, "forbidden")
}

func notFound(c fiber.Ctx, msg string) error {
	return errorJSON(c, fiber.StatusNotFound, msg)
}

func conflict(c fiber.Ctx, msg string) error {
	return errorJSON(c, fiber.StatusConflict, msg)
}

// unprocessable carries structured details, e.g. the missing result fields on
// an incomplete completion.
func unprocessable(c fiber.Ctx, msg string, details any) error {
	body := fiber.Map{"error": msg}
	if details != nil {
		body["details"] = details
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
}

func internalError(c fiber.Ctx) error {
	rid, _ := middleware.RequestIDFromFiber(c)
	slog.Error("request failed", "req_id", rid, "method", c.Method(), "path", c.Path())
	return errorJSON(c, fiber.StatusInternalServerError, "internal server error")
}

package handler

import (
	"context"
	"errors"

	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actor names whoever made the request, for audit fields.
func actor(c *fiber.Ctx) string {
	subject, _ := c.Locals("subject").(string)
	session, _ := c.Locals("session_id").(string)
	switch {
	case subject == "":
		return "system"
	case session == "":
		return subject
	default:
		return subject + ":" + session
	}
}

func parseID(c *fiber.Ctx, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid %s ID", what)
	}
	return id, nil
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindAuth:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as {"error": message} with the status of its kind. Storage failures
// are not echoed to the client.
func fail(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	message := appErr.Error()
	switch appErr.Kind {
	case apperr.KindUnavailable:
		message = "Service temporarily unavailable"
	case apperr.KindInternal:
		message = "Internal Server Error"
	}
	return c.Status(statusFor(appErr.Kind)).JSON(fiber.Map{"error": message})
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
}

type adjustFunc func(ctx context.Context, id uuid.UUID, amount int, actor string) (*model.StockItem, error)

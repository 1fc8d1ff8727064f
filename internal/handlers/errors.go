package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachOps/internal/services"
)

var errMissingPrincipal = errors.New("missing principal")

func parseUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errMissingPrincipal
	}
	return userID, nil
}

func mapCoachingError(c *fiber.Ctx, err error) error {
	var selectionErr *services.SelectionError
	switch {
	case errors.As(err, &selectionErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": selectionErr.Reason})
	case errors.Is(err, services.ErrSelectionInvalid):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrUnknownPlanType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrCapacityReached):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Coach is at capacity"})
	case errors.Is(err, services.ErrServiceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subscription not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process request"})
	}
}

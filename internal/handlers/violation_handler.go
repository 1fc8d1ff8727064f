package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachOps/internal/models"
	"github.com/saeid-a/CoachOps/internal/repository"
)

type violationLister interface {
	List(ctx context.Context, offset, limit int) ([]models.AccessViolation, int, error)
}

type ViolationHandler struct {
	violations violationLister
}

func NewViolationHandler(violations *repository.ViolationRepository) *ViolationHandler {
	return &ViolationHandler{violations: violations}
}

func (h *ViolationHandler) ListViolations(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page, offset := pageAndOffset(page, limit)

	violations, total, err := h.violations.List(c.Context(), offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch access violations"})
	}

	return c.JSON(fiber.Map{
		"violations": violations,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

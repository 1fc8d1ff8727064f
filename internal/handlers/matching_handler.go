package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/models"
	"github.com/saeid-a/CoachOps/internal/services"
)

type matchingApplicationService interface {
	AutoMatch(ctx context.Context, input services.AutoMatchInput) (uuid.UUID, bool)
	ValidateSelection(ctx context.Context, coachID, serviceID uuid.UUID) services.SelectionResult
}

type assignmentApplicationService interface {
	AssignCoach(ctx context.Context, subscriptionID, coachID uuid.UUID) (*models.Subscription, error)
}

// MatchingHandler exposes the matching engine to admins.
type MatchingHandler struct {
	matcher     matchingApplicationService
	assignments assignmentApplicationService
}

func NewMatchingHandler(matcher *services.MatchingService, assignments *services.AssignmentService) *MatchingHandler {
	return &MatchingHandler{matcher: matcher, assignments: assignments}
}

type autoMatchRequest struct {
	PlanType  string   `json:"plan_type" validate:"required"`
	Goals     []string `json:"goals" validate:"omitempty,max=20"`
	ServiceID string   `json:"service_id" validate:"omitempty,uuid"`
}

type validateSelectionRequest struct {
	CoachID   string `json:"coach_id" validate:"required,uuid"`
	ServiceID string `json:"service_id" validate:"required,uuid"`
}

type assignCoachRequest struct {
	CoachID string `json:"coach_id" validate:"required,uuid"`
}

func (h *MatchingHandler) AutoMatch(c *fiber.Ctx) error {
	var req autoMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	input := services.AutoMatchInput{PlanType: req.PlanType, Goals: req.Goals}
	if req.ServiceID != "" {
		serviceID := uuid.MustParse(req.ServiceID)
		input.ServiceID = &serviceID
	}

	coachUserID, ok := h.matcher.AutoMatch(c.Context(), input)
	if !ok {
		return c.JSON(fiber.Map{"matched": false, "coach_user_id": nil})
	}
	return c.JSON(fiber.Map{"matched": true, "coach_user_id": coachUserID})
}

func (h *MatchingHandler) ValidateSelection(c *fiber.Ctx) error {
	var req validateSelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	result := h.matcher.ValidateSelection(c.Context(), uuid.MustParse(req.CoachID), uuid.MustParse(req.ServiceID))
	return c.JSON(result)
}

func (h *MatchingHandler) AssignCoach(c *fiber.Ctx) error {
	subscriptionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid subscription id"})
	}

	var req assignCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	subscription, err := h.assignments.AssignCoach(c.Context(), subscriptionID, uuid.MustParse(req.CoachID))
	if err != nil {
		return mapCoachingError(c, err)
	}
	return c.JSON(fiber.Map{"subscription": subscription})
}

package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/models"
	"github.com/saeid-a/CoachOps/internal/services"
)

type onboardingApplicationService interface {
	Enroll(ctx context.Context, clientID uuid.UUID, input services.EnrollInput) (*services.EnrollResult, error)
	ListCoachClients(ctx context.Context, coachUserID uuid.UUID) ([]models.Subscription, error)
}

type OnboardingHandler struct {
	service onboardingApplicationService
}

func NewOnboardingHandler(service *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

type enrollRequest struct {
	PlanType  string   `json:"plan_type" validate:"required"`
	Goals     []string `json:"goals" validate:"omitempty,max=20,dive,required"`
	ServiceID string   `json:"service_id" validate:"omitempty,uuid"`
}

// Enroll completes client onboarding: the subscription is always created,
// with or without a coach.
func (h *OnboardingHandler) Enroll(c *fiber.Ctx) error {
	clientID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req enrollRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	input := services.EnrollInput{PlanType: req.PlanType, Goals: req.Goals}
	if req.ServiceID != "" {
		serviceID := uuid.MustParse(req.ServiceID)
		input.ServiceID = &serviceID
	}

	result, err := h.service.Enroll(c.Context(), clientID, input)
	if err != nil {
		return mapCoachingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *OnboardingHandler) ListCoachClients(c *fiber.Ctx) error {
	coachUserID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	clients, err := h.service.ListCoachClients(c.Context(), coachUserID)
	if err != nil {
		return mapCoachingError(c, err)
	}
	return c.JSON(fiber.Map{"clients": clients})
}

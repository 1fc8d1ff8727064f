package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachOps/internal/nutrition"
)

type NutritionHandler struct{}

func NewNutritionHandler() *NutritionHandler {
	return &NutritionHandler{}
}

type nutritionTargetsRequest struct {
	Sex           string  `json:"sex" validate:"required,oneof=male female other"`
	Age           int     `json:"age" validate:"required,gt=0,max=120"`
	HeightCM      float64 `json:"height_cm" validate:"required,gt=0"`
	WeightKG      float64 `json:"weight_kg" validate:"required,gt=0"`
	ActivityLevel string  `json:"activity_level" validate:"required,oneof=sedentary light moderate active very_active"`
	Goal          string  `json:"goal" validate:"required,oneof=lose maintain gain"`
}

func (h *NutritionHandler) Targets(c *fiber.Ctx) error {
	var req nutritionTargetsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	targets, err := nutrition.Calculate(nutrition.Profile(req))
	if err != nil {
		if errors.Is(err, nutrition.ErrInvalidProfile) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to calculate targets"})
	}
	return c.JSON(fiber.Map{"targets": targets})
}

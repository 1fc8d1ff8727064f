package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/access"
)

type accessChecker interface {
	Check(ctx context.Context, principalID *uuid.UUID, path string, required access.Role) access.Decision
}

// AccessHandler answers route-guard queries for the web client.
type AccessHandler struct {
	checker accessChecker
}

func NewAccessHandler(checker accessChecker) *AccessHandler {
	return &AccessHandler{checker: checker}
}

func (h *AccessHandler) Check(c *fiber.Ctx) error {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	var required access.Role
	if raw := strings.TrimSpace(c.Query("required_role")); raw != "" {
		role, ok := access.ParseRole(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "required_role must be one of [admin coach client]"})
		}
		required = role
	}

	var principal *uuid.UUID
	if userID, err := parseUserID(c); err == nil {
		principal = &userID
	}

	decision := h.checker.Check(c.Context(), principal, path, required)
	return c.JSON(fiber.Map{"decision": decision})
}

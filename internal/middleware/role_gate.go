package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/access"
)

// APIPrefix is stripped from request paths before they are classified, so
// /api/v1/admin/... is checked as /admin/....
const APIPrefix = "/api/v1"

type accessChecker interface {
	Check(ctx context.Context, principalID *uuid.UUID, path string, required access.Role) access.Decision
}

// RoleGate runs every request through the access model. Denials carry the
// redirect path so the client can route the user to the right place.
func RoleGate(checker accessChecker, required access.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var principal *uuid.UUID
		if id, ok := c.Locals("user_id").(uuid.UUID); ok && id != uuid.Nil {
			principal = &id
		}

		path := stripAPIPrefix(c.Path())
		decision := checker.Check(c.Context(), principal, path, required)

		switch decision.State {
		case access.StateUnauthenticated:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":         "Authentication required",
				"redirect_path": decision.RedirectPath,
			})
		case access.StateUnauthorized:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "Forbidden",
				"redirect_path": decision.RedirectPath,
			})
		}

		c.Locals("primary_role", decision.PrimaryRole.String())
		return c.Next()
	}
}

// stripAPIPrefix removes APIPrefix ignoring case, matching the router.
func stripAPIPrefix(p string) string {
	n := len(APIPrefix)
	if len(p) < n || !strings.EqualFold(p[:n], APIPrefix) {
		return p
	}
	if len(p) > n && p[n] != '/' {
		return p
	}
	return p[n:]
}

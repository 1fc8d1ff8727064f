package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/access"
	"github.com/saeid-a/CoachOps/pkg/utils"
)

type stubAccessChecker struct {
	decision      access.Decision
	lastPrincipal *uuid.UUID
	lastPath      string
	lastRequired  access.Role
}

func (s *stubAccessChecker) Check(_ context.Context, principalID *uuid.UUID, path string, required access.Role) access.Decision {
	s.lastPrincipal = principalID
	s.lastPath = path
	s.lastRequired = required
	return s.decision
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/me", AuthRequired("secret"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredSetsPrincipalLocal(t *testing.T) {
	userID := uuid.New()
	token, err := utils.GenerateToken(userID.String(), "coach", "secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotUserID uuid.UUID
	var gotRole any
	app := fiber.New()
	app.Get("/me", AuthRequired("secret"), func(c *fiber.Ctx) error {
		gotUserID, _ = c.Locals("user_id").(uuid.UUID)
		gotRole = c.Locals("role")
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if gotUserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, gotUserID)
	}
	if gotRole != nil {
		t.Fatalf("expected no role local, got %v", gotRole)
	}
}

func TestAuthRequiredRejectsNonUUIDSubject(t *testing.T) {
	token, err := utils.GenerateToken("not-a-uuid", "client", "secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	app := fiber.New()
	app.Get("/me", AuthRequired("secret"), func(c *fiber.Ctx) error {
		t.Fatalf("handler must not run")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if got := decodeBody(t, resp)["error"]; got != "Invalid or expired token" {
		t.Fatalf("unexpected error %v", got)
	}
}

func TestRoleGateStripsPrefixAndPassesPrincipal(t *testing.T) {
	principal := uuid.New()
	checker := &stubAccessChecker{decision: access.Decision{
		State:       access.StateAuthorized,
		Authorized:  true,
		PrimaryRole: access.RoleAdmin,
	}}

	var primary string
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", principal)
		return c.Next()
	})
	app.Get("/api/v1/admin/access-violations", RoleGate(checker, access.RoleAdmin), func(c *fiber.Ctx) error {
		primary, _ = c.Locals("primary_role").(string)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/access-violations", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if checker.lastPath != "/admin/access-violations" {
		t.Fatalf("expected stripped path, got %q", checker.lastPath)
	}
	if checker.lastPrincipal == nil || *checker.lastPrincipal != principal {
		t.Fatalf("expected principal %s, got %v", principal, checker.lastPrincipal)
	}
	if checker.lastRequired != access.RoleAdmin {
		t.Fatalf("expected required role admin, got %q", checker.lastRequired)
	}
	if primary != "admin" {
		t.Fatalf("expected primary_role admin, got %q", primary)
	}
}

func TestRoleGateDenials(t *testing.T) {
	cases := []struct {
		name       string
		decision   access.Decision
		wantStatus int
		wantPath   string
	}{
		{
			name:       "unauthenticated",
			decision:   access.Decision{State: access.StateUnauthenticated, RedirectPath: access.SignInPath},
			wantStatus: http.StatusUnauthorized,
			wantPath:   "/auth",
		},
		{
			name:       "unauthorized",
			decision:   access.Decision{State: access.StateUnauthorized, RedirectPath: "/coach", PrimaryRole: access.RoleCoach},
			wantStatus: http.StatusForbidden,
			wantPath:   "/coach",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checker := &stubAccessChecker{decision: tc.decision}
			app := fiber.New()
			app.Get("/api/v1/admin/matching", RoleGate(checker, ""), func(c *fiber.Ctx) error {
				t.Fatalf("handler must not run")
				return nil
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/matching", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}
			if got := decodeBody(t, resp)["redirect_path"]; got != tc.wantPath {
				t.Fatalf("expected redirect_path %q, got %v", tc.wantPath, got)
			}
			if checker.lastPrincipal != nil {
				t.Fatalf("expected nil principal without auth locals")
			}
		})
	}
}

func TestRoleGateStripsMixedCasePrefix(t *testing.T) {
	checker := &stubAccessChecker{decision: access.Decision{State: access.StateAuthorized, Authorized: true}}
	app := fiber.New()
	app.Get("/api/v1/admin/users", RoleGate(checker, ""), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/API/V1/Admin/users", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if checker.lastPath != "/Admin/users" {
		t.Fatalf("expected prefix stripped, got %q", checker.lastPath)
	}
}

func TestStripAPIPrefix(t *testing.T) {
	cases := map[string]string{
		"/api/v1/admin":   "/admin",
		"/API/V1/admin":   "/admin",
		"/api/v1":         "",
		"/api/v10/admin":  "/api/v10/admin",
		"/admin":          "/admin",
	}
	for raw, want := range cases {
		if got := stripAPIPrefix(raw); got != want {
			t.Fatalf("stripAPIPrefix(%q) = %q, want %q", raw, got, want)
		}
	}
}

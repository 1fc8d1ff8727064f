package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/access"
	"github.com/saeid-a/CoachOps/internal/logger"
	"github.com/saeid-a/CoachOps/internal/models"
)

type stubRoleSource struct {
	roles []string
	err   error
	calls int
}

func (s *stubRoleSource) ListRoles(_ context.Context, _ uuid.UUID) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.roles, nil
}

type stubViolationStore struct {
	created []models.AccessViolation
	err     error
}

func (s *stubViolationStore) Create(_ context.Context, violation *models.AccessViolation) error {
	if s.err != nil {
		return s.err
	}
	violation.ID = int64(len(s.created) + 1)
	s.created = append(s.created, *violation)
	return nil
}

func newTestAccessService(t *testing.T, roles *stubRoleSource, violations *stubViolationStore) *AccessService {
	t.Helper()
	routes, err := access.DefaultRouteTable()
	if err != nil {
		t.Fatalf("DefaultRouteTable: %v", err)
	}
	fixed := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	model := access.NewModel(routes, access.WithClock(func() time.Time { return fixed }))
	return NewAccessService(model, roles, violations, logger.Discard())
}

func TestAccessCheckUnauthenticatedSkipsRoleLookup(t *testing.T) {
	roles := &stubRoleSource{roles: []string{"admin"}}
	service := newTestAccessService(t, roles, &stubViolationStore{})

	decision := service.Check(context.Background(), nil, "/admin", access.RoleAdmin)

	if decision.State != access.StateUnauthenticated || decision.RedirectPath != access.SignInPath {
		t.Fatalf("expected sign-in redirect, got %+v", decision)
	}
	if roles.calls != 0 {
		t.Fatalf("expected no role lookup, got %d", roles.calls)
	}
}

func TestAccessCheckPersistsViolation(t *testing.T) {
	violations := &stubViolationStore{}
	service := newTestAccessService(t, &stubRoleSource{roles: []string{"coach"}}, violations)
	principal := uuid.New()

	decision := service.Check(context.Background(), &principal, "/admin/coaches", access.RoleCoach)

	if decision.Authorized || decision.RedirectPath != "/coach" {
		t.Fatalf("expected redirect to coach dashboard, got %+v", decision)
	}
	if !decision.ViolationLogged {
		t.Fatalf("expected violation to be logged")
	}
	if len(violations.created) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations.created))
	}
	got := violations.created[0]
	if got.UserID != principal || got.AttemptedRole != "coach" || got.Path != "/admin/coaches" {
		t.Fatalf("unexpected violation: %+v", got)
	}
	if !got.CreatedAt.Equal(time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected violation timestamp: %s", got.CreatedAt)
	}
}

func TestAccessCheckViolationStoreFailureStillDenies(t *testing.T) {
	service := newTestAccessService(t, &stubRoleSource{roles: []string{"client"}}, &stubViolationStore{err: errors.New("insert failed")})
	principal := uuid.New()

	decision := service.Check(context.Background(), &principal, "/coach", "")

	if decision.Authorized {
		t.Fatalf("expected denial")
	}
	if decision.ViolationLogged {
		t.Fatalf("expected ViolationLogged=false when persistence fails")
	}
}

func TestAccessCheckRoleLookupFailsClosed(t *testing.T) {
	violations := &stubViolationStore{}
	service := newTestAccessService(t, &stubRoleSource{err: errors.New("db down")}, violations)
	principal := uuid.New()

	decision := service.Check(context.Background(), &principal, "/nutrition", "")

	if decision.Authorized {
		t.Fatalf("expected fail-closed denial")
	}
	if decision.RedirectPath != access.GenericDashboardPath {
		t.Fatalf("expected generic dashboard redirect, got %q", decision.RedirectPath)
	}
	if len(violations.created) != 0 {
		t.Fatalf("expected no violation on lookup failure")
	}
}

func TestAccessCheckSoftRequiredRoleFailureNotLogged(t *testing.T) {
	violations := &stubViolationStore{}
	service := newTestAccessService(t, &stubRoleSource{roles: []string{"client"}}, violations)
	principal := uuid.New()

	decision := service.Check(context.Background(), &principal, "/programs", access.RoleCoach)

	if decision.Authorized || decision.RedirectPath != "/client" {
		t.Fatalf("expected redirect to client dashboard, got %+v", decision)
	}
	if len(violations.created) != 0 || decision.ViolationLogged {
		t.Fatalf("expected no violation for required-role failure")
	}
}

type stubWaitlistSource struct {
	enabled    bool
	enabledErr error
	approved   map[string]bool
	lookupErr  error
}

func (s *stubWaitlistSource) IsEnabled(_ context.Context) (bool, error) {
	return s.enabled, s.enabledErr
}

func (s *stubWaitlistSource) IsApproved(_ context.Context, email string) (bool, error) {
	if s.lookupErr != nil {
		return false, s.lookupErr
	}
	return s.approved[email], nil
}

func TestWaitlistAllows(t *testing.T) {
	cases := []struct {
		name   string
		source *stubWaitlistSource
		email  string
		want   bool
	}{
		{name: "disabled", source: &stubWaitlistSource{}, email: "a@example.com", want: true},
		{name: "approved", source: &stubWaitlistSource{enabled: true, approved: map[string]bool{"a@example.com": true}}, email: "a@example.com", want: true},
		{name: "not approved", source: &stubWaitlistSource{enabled: true}, email: "b@example.com", want: false},
		{name: "setting error fails open", source: &stubWaitlistSource{enabledErr: errors.New("down")}, email: "c@example.com", want: true},
		{name: "lookup error fails open", source: &stubWaitlistSource{enabled: true, lookupErr: errors.New("down")}, email: "d@example.com", want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewWaitlistService(tc.source, logger.Discard())
			if got := service.Allows(context.Background(), tc.email); got != tc.want {
				t.Fatalf("Allows = %v, want %v", got, tc.want)
			}
		})
	}
}

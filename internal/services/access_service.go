package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/access"
	"github.com/saeid-a/CoachOps/internal/metrics"
	"github.com/saeid-a/CoachOps/internal/models"
)

type roleSource interface {
	ListRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type violationStore interface {
	Create(ctx context.Context, violation *models.AccessViolation) error
}

type AccessService struct {
	model      *access.Model
	roles      roleSource
	violations violationStore
	logger     *slog.Logger
}

func NewAccessService(model *access.Model, roles roleSource, violations violationStore, logger *slog.Logger) *AccessService {
	return &AccessService{
		model:      model,
		roles:      roles,
		violations: violations,
		logger:     logger.With("component", "access"),
	}
}

// Check loads the principal's roles and asks the model for a decision. A nil
// principal is unauthenticated. Role lookup errors fail closed.
func (s *AccessService) Check(ctx context.Context, principalID *uuid.UUID, path string, required access.Role) access.Decision {
	if principalID == nil {
		decision := s.model.Decide(access.Request{Path: path, RequiredRole: required})
		metrics.ObserveAccess(decision.State.String())
		return decision
	}

	roleNames, err := s.roles.ListRoles(ctx, *principalID)
	if err != nil {
		s.logger.Error("role lookup failed, denying access",
			"principal_id", *principalID,
			"path", path,
			"error", err,
		)
		decision := access.FailClosed()
		metrics.ObserveAccess(decision.State.String())
		return decision
	}

	decision := s.model.Decide(access.Request{
		Authenticated: true,
		PrincipalID:   *principalID,
		Roles:         access.NewRoleSet(roleNames...),
		Path:          path,
		RequiredRole:  required,
	})
	metrics.ObserveAccess(decision.State.String())

	if decision.Violation != nil {
		s.recordViolation(ctx, &decision)
	}
	return decision
}

func (s *AccessService) recordViolation(ctx context.Context, decision *access.Decision) {
	v := decision.Violation
	s.logger.Warn("access violation",
		"principal_id", v.PrincipalID,
		"attempted_role", v.AttemptedRole,
		"actual_roles", v.ActualRoles,
		"path", v.Path,
		"occurred_at", v.OccurredAt,
	)
	metrics.ObserveViolation(v.AttemptedRole.String())

	err := s.violations.Create(ctx, &models.AccessViolation{
		UserID:        v.PrincipalID,
		AttemptedRole: v.AttemptedRole.String(),
		ActualRoles:   v.ActualRoles,
		Path:          v.Path,
		CreatedAt:     v.OccurredAt,
	})
	if err != nil {
		s.logger.Error("failed to persist access violation", "principal_id", v.PrincipalID, "path", v.Path, "error", err)
		return
	}
	decision.ViolationLogged = true
}

type waitlistSource interface {
	IsEnabled(ctx context.Context) (bool, error)
	IsApproved(ctx context.Context, email string) (bool, error)
}

// WaitlistService gates registration while the product is invite-only.
type WaitlistService struct {
	source waitlistSource
	logger *slog.Logger
}

func NewWaitlistService(source waitlistSource, logger *slog.Logger) *WaitlistService {
	return &WaitlistService{source: source, logger: logger.With("component", "waitlist")}
}

// Allows reports whether email may register. Any lookup error lets the
// registration through.
func (s *WaitlistService) Allows(ctx context.Context, email string) bool {
	enabled, err := s.source.IsEnabled(ctx)
	if err != nil {
		s.logger.Warn("waitlist setting unavailable, allowing registration", "error", err)
		return true
	}
	if !enabled {
		return true
	}

	approved, err := s.source.IsApproved(ctx, email)
	if err != nil {
		s.logger.Warn("waitlist lookup failed, allowing registration", "email", email, "error", err)
		return true
	}
	return approved
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachOps/internal/models"
	"github.com/saeid-a/CoachOps/internal/repository"
)

const manualAssignmentMessage = "No coach is available right now. You'll be assigned a coach manually."

type coachMatcher interface {
	ResolveServiceID(ctx context.Context, planType string, serviceID *uuid.UUID) (uuid.UUID, error)
	AutoMatch(ctx context.Context, input AutoMatchInput) (uuid.UUID, bool)
}

type subscriptionStore interface {
	Create(ctx context.Context, input repository.CreateSubscriptionInput) (*models.Subscription, error)
	GetByID(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error)
	ListOpenByCoach(ctx context.Context, coachUserID uuid.UUID) ([]models.Subscription, error)
}

type OnboardingService struct {
	matcher       coachMatcher
	subscriptions subscriptionStore
	assigner      CoachAssigner
	notifier      Notifier
	logger        *slog.Logger
}

func NewOnboardingService(
	matcher coachMatcher,
	subscriptions subscriptionStore,
	assigner CoachAssigner,
	notifier Notifier,
	logger *slog.Logger,
) *OnboardingService {
	return &OnboardingService{
		matcher:       matcher,
		subscriptions: subscriptions,
		assigner:      assigner,
		notifier:      notifier,
		logger:        logger.With("component", "onboarding"),
	}
}

type EnrollInput struct {
	PlanType  string
	Goals     []string
	ServiceID *uuid.UUID
}

type EnrollResult struct {
	Subscription  *models.Subscription `json:"subscription"`
	CoachAssigned bool                 `json:"coach_assigned"`
	Message       string               `json:"message,omitempty"`
}

// Enroll creates the client's subscription and tries to attach a coach. A
// failed match never fails onboarding: the subscription stays unassigned and
// admins are notified.
func (s *OnboardingService) Enroll(ctx context.Context, clientID uuid.UUID, input EnrollInput) (*EnrollResult, error) {
	planType := strings.ToLower(strings.TrimSpace(input.PlanType))
	if _, ok := ServiceNameForPlan(planType); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlanType, input.PlanType)
	}
	goals := cleanGoals(input.Goals)

	serviceID, err := s.matcher.ResolveServiceID(ctx, planType, input.ServiceID)
	if err != nil {
		return nil, err
	}

	subscription, err := s.subscriptions.Create(ctx, repository.CreateSubscriptionInput{
		UserID:    clientID,
		ServiceID: serviceID,
		PlanType:  planType,
		Goals:     goals,
	})
	if err != nil {
		return nil, err
	}

	coachUserID, ok := s.matcher.AutoMatch(ctx, AutoMatchInput{
		PlanType:  planType,
		Goals:     goals,
		ServiceID: &serviceID,
	})
	if !ok {
		s.notifyUnassigned(ctx, subscription, "no coach with spare capacity")
		return &EnrollResult{Subscription: subscription, Message: manualAssignmentMessage}, nil
	}

	assigned, err := s.assigner.Assign(ctx, subscription.ID, coachUserID, serviceID)
	if err != nil {
		reason := "assignment failed"
		if errors.Is(err, ErrCapacityReached) {
			reason = "matched coach filled up before assignment"
		} else {
			s.logger.Error("failed to assign matched coach",
				"subscription_id", subscription.ID,
				"coach_user_id", coachUserID,
				"error", err,
			)
		}
		s.notifyUnassigned(ctx, subscription, reason)
		return &EnrollResult{Subscription: subscription, Message: manualAssignmentMessage}, nil
	}

	return &EnrollResult{Subscription: assigned, CoachAssigned: true}, nil
}

// ListCoachClients returns the open subscriptions assigned to a coach.
func (s *OnboardingService) ListCoachClients(ctx context.Context, coachUserID uuid.UUID) ([]models.Subscription, error) {
	return s.subscriptions.ListOpenByCoach(ctx, coachUserID)
}

func (s *OnboardingService) notifyUnassigned(ctx context.Context, subscription *models.Subscription, reason string) {
	err := s.notifier.NotifyUnassignedClient(ctx, UnassignedClientNotice{
		SubscriptionID: subscription.ID,
		ClientID:       subscription.UserID,
		PlanType:       subscription.PlanType,
		Goals:          subscription.Goals,
		Reason:         reason,
	})
	if err != nil {
		s.logger.Error("failed to notify admins", "subscription_id", subscription.ID, "error", err)
	}
}

type selectionValidator interface {
	ValidateSelection(ctx context.Context, coachID, serviceID uuid.UUID) SelectionResult
}

// SelectionError carries the reason a manual selection was rejected.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string {
	return "coach selection invalid: " + e.Reason
}

func (e *SelectionError) Is(target error) bool {
	return target == ErrSelectionInvalid
}

type coachLookup interface {
	GetByID(ctx context.Context, coachID uuid.UUID) (*models.Coach, error)
}

type AssignmentService struct {
	validator     selectionValidator
	coaches       coachLookup
	subscriptions subscriptionStore
	assigner      CoachAssigner
	logger        *slog.Logger
}

func NewAssignmentService(
	validator selectionValidator,
	coaches coachLookup,
	subscriptions subscriptionStore,
	assigner CoachAssigner,
	logger *slog.Logger,
) *AssignmentService {
	return &AssignmentService{
		validator:     validator,
		coaches:       coaches,
		subscriptions: subscriptions,
		assigner:      assigner,
		logger:        logger.With("component", "assignment"),
	}
}

// AssignCoach attaches a manually chosen coach (entity id) to a subscription.
func (s *AssignmentService) AssignCoach(ctx context.Context, subscriptionID, coachID uuid.UUID) (*models.Subscription, error) {
	subscription, err := s.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !subscription.IsOpen() {
		return nil, fmt.Errorf("%w: subscription is %s", ErrInvalidInput, subscription.Status)
	}
	if subscription.CoachID != nil {
		coach, err := s.coaches.GetByID(ctx, coachID)
		if err == nil && assignedTo(subscription, coach.UserID) {
			return subscription, nil
		}
	}

	result := s.validator.ValidateSelection(ctx, coachID, subscription.ServiceID)
	if !result.Valid {
		return nil, &SelectionError{Reason: result.Reason}
	}

	assigned, err := s.assigner.Assign(ctx, subscription.ID, *result.CoachUserID, subscription.ServiceID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("coach assigned manually",
		"subscription_id", subscription.ID,
		"coach_user_id", *result.CoachUserID,
	)
	return assigned, nil
}

func cleanGoals(goals []string) []string {
	cleaned := make([]string, 0, len(goals))
	for _, goal := range goals {
		if trimmed := strings.TrimSpace(goal); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

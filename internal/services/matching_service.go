package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachOps/internal/matching"
	"github.com/saeid-a/CoachOps/internal/metrics"
	"github.com/saeid-a/CoachOps/internal/models"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownPlanType  = errors.New("unknown plan type")
	ErrServiceNotFound  = errors.New("service not found")
	ErrNotFound         = errors.New("not found")
	ErrCapacityReached  = errors.New("coach capacity reached")
	ErrSelectionInvalid = errors.New("coach selection invalid")
)

// planServiceNames maps a plan type to the canonical service it books.
var planServiceNames = map[string]string{
	models.PlanTypeOnline:   "Online Coaching",
	models.PlanTypeHybrid:   "Hybrid Coaching",
	models.PlanTypeInPerson: "In-Person Coaching",
}

func ServiceNameForPlan(planType string) (string, bool) {
	name, ok := planServiceNames[strings.ToLower(strings.TrimSpace(planType))]
	return name, ok
}

type coachSource interface {
	ListActive(ctx context.Context) ([]models.Coach, error)
	GetByID(ctx context.Context, coachID uuid.UUID) (*models.Coach, error)
}

type capacitySource interface {
	ListByService(ctx context.Context, serviceID uuid.UUID) (map[uuid.UUID]int, error)
	GetMaxClients(ctx context.Context, coachID, serviceID uuid.UUID) (int, error)
}

type subscriptionCounter interface {
	CountOpenByService(ctx context.Context, serviceID uuid.UUID) (map[uuid.UUID]int, error)
	CountOpenForCoach(ctx context.Context, coachUserID, serviceID uuid.UUID) (int, error)
}

type serviceResolver interface {
	GetByName(ctx context.Context, name string) (*models.Service, error)
	GetByID(ctx context.Context, serviceID uuid.UUID) (*models.Service, error)
}

type MatchingService struct {
	coaches       coachSource
	capacity      capacitySource
	subscriptions subscriptionCounter
	services      serviceResolver
	logger        *slog.Logger
	debug         bool
}

// NewMatchingService wires the read sources. debug enables per-candidate
// logging and comes from configuration, never from the environment.
func NewMatchingService(
	coaches coachSource,
	capacity capacitySource,
	subscriptions subscriptionCounter,
	services serviceResolver,
	logger *slog.Logger,
	debug bool,
) *MatchingService {
	return &MatchingService{
		coaches:       coaches,
		capacity:      capacity,
		subscriptions: subscriptions,
		services:      services,
		logger:        logger.With("component", "matching"),
		debug:         debug,
	}
}

type AutoMatchInput struct {
	PlanType  string
	Goals     []string
	ServiceID *uuid.UUID
}

// ResolveServiceID returns serviceID when it names an active service,
// otherwise looks up the canonical service for the plan type.
func (s *MatchingService) ResolveServiceID(ctx context.Context, planType string, serviceID *uuid.UUID) (uuid.UUID, error) {
	if serviceID != nil && *serviceID != uuid.Nil {
		return s.activeService(ctx, *serviceID)
	}
	name, ok := ServiceNameForPlan(planType)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrUnknownPlanType, planType)
	}
	service, err := s.services.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
		}
		return uuid.Nil, fmt.Errorf("resolve service %s: %w", name, err)
	}
	return service.ID, nil
}

func (s *MatchingService) activeService(ctx context.Context, serviceID uuid.UUID) (uuid.UUID, error) {
	service, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
		}
		return uuid.Nil, fmt.Errorf("resolve service %s: %w", serviceID, err)
	}
	if !service.IsActive {
		return uuid.Nil, fmt.Errorf("%w: %s is inactive", ErrServiceNotFound, serviceID)
	}
	return service.ID, nil
}

// AutoMatch returns the principal id of the best available coach. Every
// failure is logged and reported as no match.
func (s *MatchingService) AutoMatch(ctx context.Context, input AutoMatchInput) (uuid.UUID, bool) {
	serviceID, err := s.ResolveServiceID(ctx, input.PlanType, input.ServiceID)
	if err != nil {
		s.logger.Warn("auto-match could not resolve service", "plan_type", input.PlanType, "error", err)
		metrics.ObserveMatch("unresolved_service")
		return uuid.Nil, false
	}
	log := s.logger.With("service_id", serviceID)

	coaches, err := s.coaches.ListActive(ctx)
	if err != nil {
		log.Error("auto-match failed to load coaches", "error", err)
		metrics.ObserveMatch("error")
		return uuid.Nil, false
	}
	if len(coaches) == 0 {
		log.Warn("auto-match found no active coaches")
		metrics.ObserveMatch("no_coaches")
		return uuid.Nil, false
	}

	limits, err := s.capacity.ListByService(ctx, serviceID)
	if err != nil {
		log.Error("auto-match failed to load capacity limits", "error", err)
		metrics.ObserveMatch("error")
		return uuid.Nil, false
	}

	counts, err := s.subscriptions.CountOpenByService(ctx, serviceID)
	if err != nil {
		log.Error("auto-match failed to count subscriptions", "error", err)
		metrics.ObserveMatch("error")
		return uuid.Nil, false
	}

	candidates := matching.Candidates(coaches, limits, counts, input.Goals)
	if len(candidates) == 0 {
		log.Warn("auto-match found no coach with spare capacity", "active_coaches", len(coaches))
		metrics.ObserveMatch("no_capacity")
		return uuid.Nil, false
	}
	matching.Rank(candidates)

	if s.debug {
		for i, candidate := range candidates {
			log.Debug("auto-match candidate",
				"rank", i+1,
				"coach_id", candidate.CoachID,
				"coach_user_id", candidate.UserID,
				"score", candidate.Score,
				"active_clients", candidate.ActiveClientCount,
				"max_clients", candidate.MaxClients,
			)
		}
	}

	best := candidates[0]
	log.Info("auto-match selected coach",
		"coach_user_id", best.UserID,
		"score", best.Score,
		"active_clients", best.ActiveClientCount,
	)
	metrics.ObserveMatch("matched")
	return best.UserID, true
}

type SelectionResult struct {
	Valid       bool       `json:"valid"`
	CoachUserID *uuid.UUID `json:"coach_user_id,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

func rejectSelection(reason string) SelectionResult {
	metrics.ObserveSelection(false)
	return SelectionResult{Reason: reason}
}

// ValidateSelection re-checks capacity for a manually chosen coach. Rejections
// carry a reason meant for direct display.
func (s *MatchingService) ValidateSelection(ctx context.Context, coachID, serviceID uuid.UUID) SelectionResult {
	log := s.logger.With("coach_id", coachID, "service_id", serviceID)

	coach, err := s.coaches.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rejectSelection("Coach not found")
		}
		log.Error("selection check failed to load coach", "error", err)
		return rejectSelection("Unable to verify coach availability")
	}
	if !coach.IsActive() {
		return rejectSelection("Coach is not active")
	}

	maxClients, err := s.capacity.GetMaxClients(ctx, coachID, serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rejectSelection("Coach has no capacity configured for this service")
		}
		log.Error("selection check failed to load capacity", "error", err)
		return rejectSelection("Unable to verify coach availability")
	}
	if maxClients <= 0 {
		return rejectSelection("Coach is not accepting clients for this service")
	}

	active, err := s.subscriptions.CountOpenForCoach(ctx, coach.UserID, serviceID)
	if err != nil {
		log.Error("selection check failed to count subscriptions", "error", err)
		return rejectSelection("Unable to verify coach availability")
	}
	if active >= maxClients {
		return rejectSelection(fmt.Sprintf("Coach is at capacity (%d/%d clients)", active, maxClients))
	}

	metrics.ObserveSelection(true)
	userID := coach.UserID
	return SelectionResult{Valid: true, CoachUserID: &userID}
}

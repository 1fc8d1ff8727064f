package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/CoachOps/internal/models"
	"github.com/saeid-a/CoachOps/internal/repository"
)

type CoachAssigner interface {
	Assign(ctx context.Context, subscriptionID, coachUserID, serviceID uuid.UUID) (*models.Subscription, error)
}

// CapacityGuard writes a coach onto a subscription only if the coach still has
// a free slot. Concurrent assignments to one coach are serialized with a
// transaction-scoped advisory lock.
type CapacityGuard struct {
	db *pgxpool.Pool
}

func NewCapacityGuard(db *pgxpool.Pool) *CapacityGuard {
	return &CapacityGuard{db: db}
}

func (g *CapacityGuard) Assign(
	ctx context.Context,
	subscriptionID uuid.UUID,
	coachUserID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Subscription, error) {
	tx, err := g.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txCoachRepo := repository.NewCoachRepository(tx)
	txCapacityRepo := repository.NewCapacityRepository(tx)
	txSubscriptionRepo := repository.NewSubscriptionRepository(tx)

	if err := txSubscriptionRepo.LockCoach(ctx, coachUserID); err != nil {
		return nil, err
	}

	current, err := txSubscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// The subscription already holds one of the coach's slots.
	if assignedTo(current, coachUserID) {
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return current, nil
	}

	coach, err := txCoachRepo.GetByUserID(ctx, coachUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: coach not found", ErrSelectionInvalid)
		}
		return nil, err
	}
	if !coach.IsActive() {
		return nil, fmt.Errorf("%w: coach is not active", ErrSelectionInvalid)
	}

	maxClients, err := txCapacityRepo.GetMaxClients(ctx, coach.ID, serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCapacityReached
		}
		return nil, err
	}
	active, err := txSubscriptionRepo.CountOpenForCoach(ctx, coachUserID, serviceID)
	if err != nil {
		return nil, err
	}
	if active >= maxClients {
		return nil, ErrCapacityReached
	}

	subscription, err := txSubscriptionRepo.AssignCoach(ctx, subscriptionID, coachUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return subscription, nil
}

func assignedTo(subscription *models.Subscription, coachUserID uuid.UUID) bool {
	return subscription.IsOpen() && subscription.CoachID != nil && *subscription.CoachID == coachUserID
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachOps/internal/models"
)

type CreateSubscriptionInput struct {
	UserID    uuid.UUID
	ServiceID uuid.UUID
	PlanType  string
	Goals     []string
}

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, coach_id, service_id, plan_type, goals, status, created_at, updated_at`

func (r *SubscriptionRepository) Create(ctx context.Context, input CreateSubscriptionInput) (*models.Subscription, error) {
	query := `
		INSERT INTO subscriptions (user_id, service_id, plan_type, goals, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING ` + subscriptionColumns
	goals := input.Goals
	if goals == nil {
		goals = []string{}
	}
	return scanSubscription(r.db.QueryRow(ctx, query, input.UserID, input.ServiceID, input.PlanType, goals))
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	return scanSubscription(r.db.QueryRow(ctx, query, subscriptionID))
}

// CountOpenByService returns pending+active subscription counts for the
// service keyed by coach principal id.
func (r *SubscriptionRepository) CountOpenByService(ctx context.Context, serviceID uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT coach_id, COUNT(*)
		FROM subscriptions
		WHERE service_id = $1
		  AND status IN ('pending', 'active')
		  AND coach_id IS NOT NULL
		GROUP BY coach_id
	`
	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var coachUserID uuid.UUID
		var count int
		if err := rows.Scan(&coachUserID, &count); err != nil {
			return nil, err
		}
		counts[coachUserID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *SubscriptionRepository) CountOpenForCoach(ctx context.Context, coachUserID, serviceID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM subscriptions
		WHERE coach_id = $1
		  AND service_id = $2
		  AND status IN ('pending', 'active')
	`
	var count int
	if err := r.db.QueryRow(ctx, query, coachUserID, serviceID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// LockCoach serializes capacity checks for one coach until the surrounding
// transaction ends.
func (r *SubscriptionRepository) LockCoach(ctx context.Context, coachUserID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))", coachUserID.String())
	return err
}

func (r *SubscriptionRepository) AssignCoach(ctx context.Context, subscriptionID, coachUserID uuid.UUID) (*models.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET coach_id = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'active')
		RETURNING ` + subscriptionColumns
	return scanSubscription(r.db.QueryRow(ctx, query, subscriptionID, coachUserID))
}

func (r *SubscriptionRepository) ListOpenByCoach(ctx context.Context, coachUserID uuid.UUID) ([]models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE coach_id = $1 AND status IN ('pending', 'active')
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, coachUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscriptions := make([]models.Subscription, 0)
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, *subscription)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func scanSubscription(row pgx.Row) (*models.Subscription, error) {
	var subscription models.Subscription
	err := row.Scan(
		&subscription.ID,
		&subscription.UserID,
		&subscription.CoachID,
		&subscription.ServiceID,
		&subscription.PlanType,
		&subscription.Goals,
		&subscription.Status,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachOps/internal/models"
)

type CoachRepository struct {
	db DBTX
}

func NewCoachRepository(db DBTX) *CoachRepository {
	return &CoachRepository{db: db}
}

func (r *CoachRepository) ListActive(ctx context.Context) ([]models.Coach, error) {
	query := `
		SELECT id, user_id, full_name, specializations, status, created_at, updated_at
		FROM coaches
		WHERE status = 'active'
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coaches := make([]models.Coach, 0)
	for rows.Next() {
		coach, err := scanCoach(rows)
		if err != nil {
			return nil, err
		}
		coaches = append(coaches, *coach)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coaches, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, coachID uuid.UUID) (*models.Coach, error) {
	query := `
		SELECT id, user_id, full_name, specializations, status, created_at, updated_at
		FROM coaches
		WHERE id = $1
	`
	return scanCoach(r.db.QueryRow(ctx, query, coachID))
}

func (r *CoachRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Coach, error) {
	query := `
		SELECT id, user_id, full_name, specializations, status, created_at, updated_at
		FROM coaches
		WHERE user_id = $1
	`
	return scanCoach(r.db.QueryRow(ctx, query, userID))
}

func scanCoach(row pgx.Row) (*models.Coach, error) {
	var coach models.Coach
	var specializations []string
	err := row.Scan(
		&coach.ID,
		&coach.UserID,
		&coach.FullName,
		&specializations,
		&coach.Status,
		&coach.CreatedAt,
		&coach.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if specializations == nil {
		specializations = []string{}
	}
	coach.Specializations = specializations
	return &coach, nil
}

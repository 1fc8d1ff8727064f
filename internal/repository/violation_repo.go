package repository

import (
	"context"

	"github.com/saeid-a/CoachOps/internal/models"
)

type ViolationRepository struct {
	db DBTX
}

func NewViolationRepository(db DBTX) *ViolationRepository {
	return &ViolationRepository{db: db}
}

func (r *ViolationRepository) Create(ctx context.Context, violation *models.AccessViolation) error {
	query := `
		INSERT INTO access_violations (user_id, attempted_role, actual_roles, path, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	actualRoles := violation.ActualRoles
	if actualRoles == nil {
		actualRoles = []string{}
	}
	return r.db.QueryRow(ctx, query,
		violation.UserID,
		violation.AttemptedRole,
		actualRoles,
		violation.Path,
		violation.CreatedAt,
	).Scan(&violation.ID)
}

// List returns violations newest first together with the total row count.
func (r *ViolationRepository) List(ctx context.Context, offset, limit int) ([]models.AccessViolation, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM access_violations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, attempted_role, actual_roles, path, created_at
		FROM access_violations
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	violations := make([]models.AccessViolation, 0, limit)
	for rows.Next() {
		var violation models.AccessViolation
		if err := rows.Scan(
			&violation.ID,
			&violation.UserID,
			&violation.AttemptedRole,
			&violation.ActualRoles,
			&violation.Path,
			&violation.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		violations = append(violations, violation)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return violations, total, nil
}

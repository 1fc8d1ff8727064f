package repository

import (
	"context"

	"github.com/google/uuid"
)

type CapacityRepository struct {
	db DBTX
}

func NewCapacityRepository(db DBTX) *CapacityRepository {
	return &CapacityRepository{db: db}
}

// ListByService returns max clients keyed by coach entity id.
func (r *CapacityRepository) ListByService(ctx context.Context, serviceID uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT coach_id, max_clients
		FROM coach_service_limits
		WHERE service_id = $1
	`
	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	limits := make(map[uuid.UUID]int)
	for rows.Next() {
		var coachID uuid.UUID
		var maxClients int
		if err := rows.Scan(&coachID, &maxClients); err != nil {
			return nil, err
		}
		limits[coachID] = maxClients
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return limits, nil
}

// GetMaxClients returns pgx.ErrNoRows when the coach has no limit row.
func (r *CapacityRepository) GetMaxClients(ctx context.Context, coachID, serviceID uuid.UUID) (int, error) {
	query := `
		SELECT max_clients
		FROM coach_service_limits
		WHERE coach_id = $1 AND service_id = $2
	`
	var maxClients int
	if err := r.db.QueryRow(ctx, query, coachID, serviceID).Scan(&maxClients); err != nil {
		return 0, err
	}
	return maxClients, nil
}

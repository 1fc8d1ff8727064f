package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/models"
)

type ServiceRepository struct {
	db DBTX
}

func NewServiceRepository(db DBTX) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) GetByName(ctx context.Context, name string) (*models.Service, error) {
	query := `
		SELECT id, name, is_active
		FROM services
		WHERE name = $1 AND is_active = TRUE
	`
	var service models.Service
	if err := r.db.QueryRow(ctx, query, name).Scan(&service.ID, &service.Name, &service.IsActive); err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, serviceID uuid.UUID) (*models.Service, error) {
	query := `
		SELECT id, name, is_active
		FROM services
		WHERE id = $1
	`
	var service models.Service
	if err := r.db.QueryRow(ctx, query, serviceID).Scan(&service.ID, &service.Name, &service.IsActive); err != nil {
		return nil, err
	}
	return &service, nil
}

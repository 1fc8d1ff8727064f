package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CoachStatusActive   = "active"
	CoachStatusInactive = "inactive"
	CoachStatusPending  = "pending"
)

// Coach is the business entity. UserID is the coach's auth principal, which is
// what subscriptions reference.
type Coach struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	FullName        *string   `json:"full_name"`
	Specializations []string  `json:"specializations"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c Coach) IsActive() bool {
	return c.Status == CoachStatusActive
}

type Service struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

type CapacityLimit struct {
	CoachID    uuid.UUID `json:"coach_id"`
	ServiceID  uuid.UUID `json:"service_id"`
	MaxClients int       `json:"max_clients"`
}

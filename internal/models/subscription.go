package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

const (
	PlanTypeOnline   = "online"
	PlanTypeHybrid   = "hybrid"
	PlanTypeInPerson = "in_person"
)

type Subscription struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	CoachID   *uuid.UUID `json:"coach_id"`
	ServiceID uuid.UUID  `json:"service_id"`
	PlanType  string     `json:"plan_type"`
	Goals     []string   `json:"goals"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsOpen reports whether the subscription occupies a coach slot.
func (s Subscription) IsOpen() bool {
	return s.Status == SubscriptionStatusPending || s.Status == SubscriptionStatusActive
}

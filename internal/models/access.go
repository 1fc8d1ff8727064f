package models

import (
	"time"

	"github.com/google/uuid"
)

type AccessViolation struct {
	ID            int64     `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	AttemptedRole string    `json:"attempted_role"`
	ActualRoles   []string  `json:"actual_roles"`
	Path          string    `json:"path"`
	CreatedAt     time.Time `json:"created_at"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

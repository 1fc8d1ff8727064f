package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type WaitlistRepository struct {
	db DBTX
}

func NewWaitlistRepository(db DBTX) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

// IsEnabled reads the waitlist_enabled setting. A missing row means disabled.
func (r *WaitlistRepository) IsEnabled(ctx context.Context) (bool, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = 'waitlist_enabled'`).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return value == "true", nil
}

func (r *WaitlistRepository) IsApproved(ctx context.Context, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM waitlist_entries WHERE email = $1 AND status = 'approved'
		)
	`
	var approved bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&approved); err != nil {
		return false, err
	}
	return approved, nil
}

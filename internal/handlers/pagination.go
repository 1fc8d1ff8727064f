package handlers

import (
	"strconv"

	"github.com/saeid-a/CoachOps/internal/models"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
	// maxPage keeps (page-1)*limit far from int overflow.
	maxPage          = 100000
)

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// pageAndOffset clamps page and returns it with the matching row offset.
func pageAndOffset(page, limit int) (int, int) {
	if page > maxPage {
		page = maxPage
	}
	return page, (page - 1) * limit
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

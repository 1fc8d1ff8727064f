// Package matching selects a coach for a client from already-loaded coach,
// capacity and subscription rows. It performs no I/O.
package matching

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/models"
)

// Candidate is a coach with spare capacity for the target service. It only
// lives for the duration of one matching call.
type Candidate struct {
	CoachID           uuid.UUID
	UserID            uuid.UUID
	Specializations   []string
	ActiveClientCount int
	MaxClients        int
	Score             int
}

// Limits maps coach entity id to max clients for one service.
type Limits map[uuid.UUID]int

// Counts maps coach principal id to open subscriptions for one service.
type Counts map[uuid.UUID]int

// Score counts the distinct goals found in the coach's specializations,
// ignoring case and surrounding whitespace.
func Score(goals, specializations []string) int {
	specs := tagSet(specializations)
	if len(specs) == 0 {
		return 0
	}

	score := 0
	for goal := range tagSet(goals) {
		if _, ok := specs[goal]; ok {
			score++
		}
	}
	return score
}

// Candidates keeps the active coaches that offer the service and still have a
// free slot. Limits are keyed by entity id and counts by principal id.
func Candidates(coaches []models.Coach, limits Limits, counts Counts, goals []string) []Candidate {
	candidates := make([]Candidate, 0, len(coaches))
	for _, coach := range coaches {
		if !coach.IsActive() {
			continue
		}
		maxClients, ok := limits[coach.ID]
		if !ok || maxClients <= 0 {
			continue
		}
		active := counts[coach.UserID]
		if active >= maxClients {
			continue
		}
		candidates = append(candidates, Candidate{
			CoachID:           coach.ID,
			UserID:            coach.UserID,
			Specializations:   coach.Specializations,
			ActiveClientCount: active,
			MaxClients:        maxClients,
			Score:             Score(goals, coach.Specializations),
		})
	}
	return candidates
}

// Rank orders candidates in place by score descending, then by active client
// count ascending. Remaining ties keep their input order.
func Rank(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].ActiveClientCount < candidates[j].ActiveClientCount
		}
		return candidates[i].Score > candidates[j].Score
	})
}

// Best ranks the eligible coaches and returns the top one.
func Best(coaches []models.Coach, limits Limits, counts Counts, goals []string) (Candidate, bool) {
	candidates := Candidates(coaches, limits, counts, goals)
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	Rank(candidates)
	return candidates[0], true
}

func tagSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		if key := normalizeTag(value); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func normalizeTag(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

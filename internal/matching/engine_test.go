package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachOps/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	coaches []models.Coach
	limits  Limits
	counts  Counts
}

func (f *fixture) add(specs []string, active, maxClients int) models.Coach {
	coach := models.Coach{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Specializations: specs,
		Status:          models.CoachStatusActive,
	}
	if f.limits == nil {
		f.limits = Limits{}
		f.counts = Counts{}
	}
	f.coaches = append(f.coaches, coach)
	f.limits[coach.ID] = maxClients
	if active > 0 {
		f.counts[coach.UserID] = active
	}
	return coach
}

func TestScore(t *testing.T) {
	assert.Equal(t, 2, Score([]string{"Running", " nutrition "}, []string{"nutrition", "running", "yoga"}))
	assert.Equal(t, 1, Score([]string{"running", "RUNNING"}, []string{"running"}))
	assert.Equal(t, 0, Score(nil, []string{"running"}))
	assert.Equal(t, 0, Score([]string{"running"}, nil))
	assert.Equal(t, 0, Score([]string{"", "  "}, []string{""}))
	assert.Equal(t, 0, Score([]string{"weight loss"}, []string{"weight_loss"}))
}

func TestBestPrefersScoreOverLoad(t *testing.T) {
	var f fixture
	a := f.add([]string{"nutrition", "running"}, 3, 5)
	f.add([]string{"running"}, 1, 5)

	best, ok := Best(f.coaches, f.limits, f.counts, []string{"running", "nutrition"})

	require.True(t, ok)
	assert.Equal(t, a.UserID, best.UserID)
	assert.Equal(t, 2, best.Score)
	assert.Equal(t, 3, best.ActiveClientCount)
}

func TestBestBreaksScoreTiesByLoad(t *testing.T) {
	var f fixture
	f.add([]string{"strength"}, 4, 6)
	light := f.add([]string{"Strength"}, 1, 6)
	f.add([]string{"strength"}, 2, 6)
	f.add([]string{"yoga"}, 0, 6)

	best, ok := Best(f.coaches, f.limits, f.counts, []string{"strength"})

	require.True(t, ok)
	assert.Equal(t, light.UserID, best.UserID)
}

func TestBestFullTieKeepsInputOrder(t *testing.T) {
	var f fixture
	first := f.add([]string{"running"}, 4, 5)
	second := f.add([]string{"running"}, 4, 5)

	best, ok := Best(f.coaches, f.limits, f.counts, []string{"running"})
	require.True(t, ok)

	candidates := Candidates(f.coaches, f.limits, f.counts, []string{"running"})
	minActive := candidates[0].ActiveClientCount
	for _, c := range candidates {
		if c.ActiveClientCount < minActive {
			minActive = c.ActiveClientCount
		}
	}
	assert.Equal(t, minActive, best.ActiveClientCount)
	assert.Equal(t, first.UserID, best.UserID)
	assert.NotEqual(t, second.UserID, best.UserID)
}

func TestBestWithoutGoalsBalancesLoad(t *testing.T) {
	var f fixture
	f.add([]string{"running"}, 3, 10)
	f.add([]string{"yoga"}, 2, 10)
	idle := f.add(nil, 0, 10)

	candidates := Candidates(f.coaches, f.limits, f.counts, nil)
	for _, c := range candidates {
		assert.Zero(t, c.Score)
	}

	best, ok := Best(f.coaches, f.limits, f.counts, []string{})
	require.True(t, ok)
	assert.Equal(t, idle.UserID, best.UserID)
}

func TestCandidatesRespectCapacity(t *testing.T) {
	var f fixture
	full := f.add([]string{"running"}, 5, 5)
	over := f.add([]string{"running"}, 7, 5)
	zero := f.add([]string{"running"}, 0, 0)
	open := f.add([]string{"running"}, 4, 5)

	unlisted := models.Coach{ID: uuid.New(), UserID: uuid.New(), Specializations: []string{"running"}, Status: models.CoachStatusActive}
	inactive := models.Coach{ID: uuid.New(), UserID: uuid.New(), Specializations: []string{"running"}, Status: models.CoachStatusInactive}
	f.limits[inactive.ID] = 10
	coaches := append(f.coaches, unlisted, inactive)

	candidates := Candidates(coaches, f.limits, f.counts, []string{"running"})

	require.Len(t, candidates, 1)
	assert.Equal(t, open.UserID, candidates[0].UserID)
	for _, excluded := range []models.Coach{full, over, zero, unlisted, inactive} {
		for _, c := range candidates {
			assert.NotEqual(t, excluded.UserID, c.UserID)
		}
	}
}

func TestCandidatesJoinCountsThroughPrincipalID(t *testing.T) {
	var f fixture
	coach := f.add([]string{"running"}, 0, 2)
	// A count stored under the entity id must not be attributed to the coach.
	f.counts[coach.ID] = 2

	candidates := Candidates(f.coaches, f.limits, f.counts, nil)
	require.Len(t, candidates, 1)
	assert.Zero(t, candidates[0].ActiveClientCount)

	f.counts[coach.UserID] = 2
	assert.Empty(t, Candidates(f.coaches, f.limits, f.counts, nil))
}

func TestBestNeverExceedsCapacity(t *testing.T) {
	goals := [][]string{nil, {"running"}, {"running", "nutrition"}, {"yoga", "mobility"}}
	for seed := 0; seed < 50; seed++ {
		var f fixture
		for i := 0; i < 6; i++ {
			maxClients := (seed + i) % 4
			active := (seed * (i + 1)) % 5
			specs := []string{"running"}
			if (seed+i)%2 == 0 {
				specs = append(specs, "nutrition")
			}
			f.add(specs, active, maxClients)
		}

		for _, g := range goals {
			best, ok := Best(f.coaches, f.limits, f.counts, g)
			if !ok {
				continue
			}
			assert.Less(t, best.ActiveClientCount, best.MaxClients)
			assert.Equal(t, f.counts[best.UserID], best.ActiveClientCount)

			for _, c := range Candidates(f.coaches, f.limits, f.counts, g) {
				assert.LessOrEqual(t, c.Score, best.Score)
				if c.Score == best.Score {
					assert.LessOrEqual(t, best.ActiveClientCount, c.ActiveClientCount)
				}
			}
		}
	}
}

func TestBestEmptyPool(t *testing.T) {
	_, ok := Best(nil, Limits{}, Counts{}, []string{"running"})
	assert.False(t, ok)
}

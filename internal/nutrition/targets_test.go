package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMaintenance(t *testing.T) {
	got, err := Calculate(Profile{
		Sex:           "male",
		Age:           30,
		HeightCM:      180,
		WeightKG:      80,
		ActivityLevel: "moderate",
		Goal:          "maintain",
	})
	require.NoError(t, err)

	assert.Equal(t, Targets{
		BMR:      1780,
		TDEE:     2759,
		Calories: 2759,
		ProteinG: 128,
		FatG:     77,
		CarbsG:   389,
	}, got)
}

func TestCalculateAppliesCalorieFloor(t *testing.T) {
	got, err := Calculate(Profile{
		Sex:           "Female",
		Age:           25,
		HeightCM:      165,
		WeightKG:      60,
		ActivityLevel: "sedentary",
		Goal:          "lose",
	})
	require.NoError(t, err)

	assert.Equal(t, 1345, got.BMR)
	assert.Equal(t, 1614, got.TDEE)
	assert.Equal(t, MinimumCalories, got.Calories)
	assert.Equal(t, 120, got.ProteinG)
	assert.Equal(t, 33, got.FatG)
	assert.Equal(t, 105, got.CarbsG)
}

func TestCalculateSurplus(t *testing.T) {
	got, err := Calculate(Profile{
		Sex:           "other",
		Age:           40,
		HeightCM:      170,
		WeightKG:      70,
		ActivityLevel: "very_active",
		Goal:          "gain",
	})
	require.NoError(t, err)

	// 700 + 1062.5 - 200 - 78
	assert.Equal(t, 1485, got.BMR)
	assert.Equal(t, 2821, got.TDEE)
	assert.Equal(t, 3121, got.Calories)
	assert.Equal(t, 140, got.ProteinG)
}

func TestCarbsNeverNegative(t *testing.T) {
	got, err := Calculate(Profile{
		Sex:           "female",
		Age:           90,
		HeightCM:      100,
		WeightKG:      300,
		ActivityLevel: "sedentary",
		Goal:          "lose",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, got.CarbsG)
}

func TestCalculateRejectsInvalidProfile(t *testing.T) {
	base := Profile{Sex: "male", Age: 30, HeightCM: 180, WeightKG: 80, ActivityLevel: "light", Goal: "maintain"}

	cases := map[string]func(p *Profile){
		"sex":      func(p *Profile) { p.Sex = "unknown" },
		"activity": func(p *Profile) { p.ActivityLevel = "extreme" },
		"goal":     func(p *Profile) { p.Goal = "bulk" },
		"age":      func(p *Profile) { p.Age = 0 },
		"weight":   func(p *Profile) { p.WeightKG = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := base
			mutate(&p)
			_, err := Calculate(p)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

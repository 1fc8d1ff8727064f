// Package nutrition derives daily calorie and macro targets from a client's
// body metrics using the Mifflin-St Jeor equation.
package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidProfile = errors.New("invalid nutrition profile")

const (
	MinimumCalories = 1200

	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9
	fatShare           = 0.25
)

var sexOffsets = map[string]float64{
	"male":   5,
	"female": -161,
	"other":  -78,
}

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

var goalAdjustments = map[string]float64{
	"lose":     -500,
	"maintain": 0,
	"gain":     300,
}

var proteinPerKG = map[string]float64{
	"lose":     2.0,
	"maintain": 1.6,
	"gain":     2.0,
}

type Profile struct {
	Sex           string  `json:"sex"`
	Age           int     `json:"age"`
	HeightCM      float64 `json:"height_cm"`
	WeightKG      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
}

type Targets struct {
	BMR      int `json:"bmr"`
	TDEE     int `json:"tdee"`
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	FatG     int `json:"fat_g"`
	CarbsG   int `json:"carbs_g"`
}

// Calculate returns the daily targets for p. Unknown sex, activity level or
// goal values are rejected rather than defaulted.
func Calculate(p Profile) (Targets, error) {
	sex := strings.ToLower(strings.TrimSpace(p.Sex))
	activity := strings.ToLower(strings.TrimSpace(p.ActivityLevel))
	goal := strings.ToLower(strings.TrimSpace(p.Goal))

	offset, ok := sexOffsets[sex]
	if !ok {
		return Targets{}, fmt.Errorf("%w: unknown sex %q", ErrInvalidProfile, p.Sex)
	}
	multiplier, ok := activityMultipliers[activity]
	if !ok {
		return Targets{}, fmt.Errorf("%w: unknown activity level %q", ErrInvalidProfile, p.ActivityLevel)
	}
	adjustment, ok := goalAdjustments[goal]
	if !ok {
		return Targets{}, fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, p.Goal)
	}
	if p.Age <= 0 || p.HeightCM <= 0 || p.WeightKG <= 0 {
		return Targets{}, fmt.Errorf("%w: age, height and weight must be positive", ErrInvalidProfile)
	}

	bmr := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age) + offset
	tdee := bmr * multiplier
	calories := math.Max(tdee+adjustment, MinimumCalories)

	protein := p.WeightKG * proteinPerKG[goal]
	fat := calories * fatShare / kcalPerGramFat
	carbs := math.Max((calories-protein*kcalPerGramProtein-fat*kcalPerGramFat)/kcalPerGramCarb, 0)

	return Targets{
		BMR:      round(bmr),
		TDEE:     round(tdee),
		Calories: round(calories),
		ProteinG: round(protein),
		FatG:     round(fat),
		CarbsG:   round(carbs),
	}, nil
}

func round(v float64) int {
	return int(math.Round(v))
}

// Package goals derives daily calorie and macro targets from biometrics and
// a diet objective using the Mifflin-St Jeor equation.
package goals

import (
	"fmt"
	"math"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
	ActivityExtra     ActivityLevel = "extra"
)

type GoalType string

const (
	GoalWeightLoss  GoalType = "weight_loss"
	GoalMaintenance GoalType = "maintenance"
	GoalMuscleGain  GoalType = "muscle_gain"
)

// activityMultipliers is the single source of truth for valid activity tiers.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityActive:    1.725,
	ActivityExtra:     1.9,
}

type Input struct {
	Age      int
	Sex      Sex
	WeightKg float64
	HeightCm float64
	Activity ActivityLevel
	Goal     GoalType
}

type Goals struct {
	Calories int      `json:"calories"`
	ProteinG int      `json:"protein_g"`
	CarbsG   int      `json:"carbs_g"`
	FatG     int      `json:"fat_g"`
	Type     GoalType `json:"goal_type"`
}

// Calculate maps biometrics, activity level and goal type to daily nutrition
// targets. It is pure and total: it does not validate its input and produces
// a numeric result for any input, including degenerate ones; callers gate
// with ValidateBiometrics first. Unknown activity tiers fall back to the
// sedentary multiplier, unknown goal types to maintenance.
func Calculate(in Input) Goals {
	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.Age)
	if in.Sex == SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[in.Activity]
	if !ok {
		multiplier = 1.2
	}
	tdee := math.Round(bmr * multiplier)

	// Protein/carb/fat ratios of total calories. Maintenance uses 30/35/35.
	var calories float64
	var pRatio, cRatio, fRatio float64
	switch in.Goal {
	case GoalWeightLoss:
		calories = math.Round(tdee * 0.80)
		pRatio, cRatio, fRatio = 0.40, 0.30, 0.30
	case GoalMuscleGain:
		calories = math.Round(tdee * 1.10)
		pRatio, cRatio, fRatio = 0.30, 0.50, 0.20
	default:
		calories = tdee
		pRatio, cRatio, fRatio = 0.30, 0.35, 0.35
	}

	// 4 kcal/g for protein and carbs, 9 kcal/g for fat.
	return Goals{
		Calories: int(calories),
		ProteinG: int(math.Round(calories * pRatio / 4)),
		CarbsG:   int(math.Round(calories * cRatio / 4)),
		FatG:     int(math.Round(calories * fRatio / 9)),
		Type:     in.Goal,
	}
}

// ValidateBiometrics enforces the accepted input ranges at the boundary.
// Calculate itself never rejects; this is the caller's gate.
func ValidateBiometrics(age int, weightKg, heightCm float64) error {
	if age < 1 || age > 120 {
		return fmt.Errorf("age must be between 1 and 120 years, got %d", age)
	}
	if weightKg < 10 || weightKg > 600 {
		return fmt.Errorf("weight must be between 10kg and 600kg, got %g", weightKg)
	}
	if heightCm < 50 || heightCm > 280 {
		return fmt.Errorf("height must be between 50cm and 280cm, got %g", heightCm)
	}
	return nil
}

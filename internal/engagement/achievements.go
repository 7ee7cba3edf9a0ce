package engagement

import (
	"math"

	"nutrack/internal/models"
)

// Snapshot is the read-only view the badge predicates evaluate against.
type Snapshot struct {
	Streak       int
	GoalCalories int
	MealCount    int
	PhotoCount   int
	// CaloriesByDate sums meal calories per calendar day.
	CaloriesByDate map[string]float64
}

// Badge is a static catalog entry. Unlocked is evaluated uniformly every
// cycle; adding a badge is a data change, not new control flow.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Target      int    `json:"target"`

	Unlocked func(s Snapshot) bool `json:"-"`
	Progress func(s Snapshot) int  `json:"-"`
}

// sniperToleranceKcal is how close a day's total must land to the calorie
// goal for the sniper badge.
const sniperToleranceKcal = 50

var catalog = []Badge{
	{
		ID:          "starter",
		Name:        "First Bite",
		Description: "Log your first meal.",
		Icon:        "utensils",
		Target:      1,
		Unlocked:    func(s Snapshot) bool { return s.MealCount >= 1 },
		Progress:    func(s Snapshot) int { return s.MealCount },
	},
	{
		ID:          "meal_50",
		Name:        "Master Tracker",
		Description: "Log 50 total meals.",
		Icon:        "target",
		Target:      50,
		Unlocked:    func(s Snapshot) bool { return s.MealCount >= 50 },
		Progress:    func(s Snapshot) int { return s.MealCount },
	},
	{
		ID:          "camera_5",
		Name:        "Visionary",
		Description: "Log 5 meals with photos.",
		Icon:        "eye",
		Target:      5,
		Unlocked:    func(s Snapshot) bool { return s.PhotoCount >= 5 },
		Progress:    func(s Snapshot) int { return s.PhotoCount },
	},
	{
		ID:          "photo_10",
		Name:        "Foodie Pro",
		Description: "Log 10 meals with photos.",
		Icon:        "camera",
		Target:      10,
		Unlocked:    func(s Snapshot) bool { return s.PhotoCount >= 10 },
		Progress:    func(s Snapshot) int { return s.PhotoCount },
	},
	{
		ID:          "streak_7",
		Name:        "Week Warrior",
		Description: "Maintain a 7-day streak.",
		Icon:        "flame",
		Target:      7,
		Unlocked:    func(s Snapshot) bool { return s.Streak >= 7 },
		Progress:    func(s Snapshot) int { return s.Streak },
	},
	{
		ID:          "streak_30",
		Name:        "Consistency King",
		Description: "Maintain a 30-day streak.",
		Icon:        "trophy",
		Target:      30,
		Unlocked:    func(s Snapshot) bool { return s.Streak >= 30 },
		Progress:    func(s Snapshot) int { return s.Streak },
	},
	{
		ID:          "sniper",
		Name:        "Calorie Sniper",
		Description: "Finish a day within 50 kcal of your goal.",
		Icon:        "zap",
		Target:      1,
		Unlocked: func(s Snapshot) bool {
			// No calorie goal means nothing to snipe.
			if s.GoalCalories <= 0 {
				return false
			}
			for _, total := range s.CaloriesByDate {
				if math.Abs(total-float64(s.GoalCalories)) <= sniperToleranceKcal {
					return true
				}
			}
			return false
		},
		Progress: func(s Snapshot) int {
			if s.GoalCalories <= 0 {
				return 0
			}
			for _, total := range s.CaloriesByDate {
				if math.Abs(total-float64(s.GoalCalories)) <= sniperToleranceKcal {
					return 1
				}
			}
			return 0
		},
	},
}

// Catalog returns the fixed badge catalog.
func Catalog() []Badge {
	return catalog
}

// NewSnapshot derives the predicate inputs from a profile and its meal list.
func NewSnapshot(profile *models.UserProfile, meals []models.Meal) Snapshot {
	s := Snapshot{
		Streak:         profile.Streak,
		GoalCalories:   profile.GoalCalories,
		MealCount:      len(meals),
		CaloriesByDate: make(map[string]float64, len(meals)),
	}
	for i := range meals {
		if meals[i].HasImage() {
			s.PhotoCount++
		}
		s.CaloriesByDate[meals[i].Date] += meals[i].TotalCalories
	}
	return s
}

// EvaluateAchievements re-derives the badge set from the current profile and
// meal list and merges it into the stored set. The merge is monotonic:
// deleting meals never revokes a badge. It returns the ids unlocked by this
// evaluation; changed is true iff the stored set grew.
func EvaluateAchievements(profile *models.UserProfile, meals []models.Meal) (newlyEarned []string, changed bool) {
	snapshot := NewSnapshot(profile, meals)

	for _, badge := range catalog {
		if profile.EarnedBadges.Contains(badge.ID) {
			continue
		}
		if badge.Unlocked(snapshot) {
			profile.EarnedBadges = append(profile.EarnedBadges, badge.ID)
			newlyEarned = append(newlyEarned, badge.ID)
		}
	}
	return newlyEarned, len(newlyEarned) > 0
}

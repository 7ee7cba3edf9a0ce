package engagement

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"nutrack/internal/models"
)

func mealOn(date string, calories float64, withImage bool) models.Meal {
	m := models.Meal{
		ID:            fmt.Sprintf("%s-%g", date, calories),
		Date:          date,
		TotalCalories: calories,
	}
	if withImage {
		url := "https://cdn.example.com/meals/1.jpg"
		m.ImageURL = &url
	}
	return m
}

func mealSeries(n int, withImage bool) []models.Meal {
	meals := make([]models.Meal, 0, n)
	for i := 0; i < n; i++ {
		meals = append(meals, mealOn(fmt.Sprintf("2024-01-%02d", i%28+1), 500, withImage))
	}
	return meals
}

func TestStarterUnlocksAtFirstMeal(t *testing.T) {
	p := &models.UserProfile{GoalCalories: 2000, Streak: 1}

	newly, changed := EvaluateAchievements(p, nil)
	assert.False(t, changed)
	assert.Empty(t, newly)

	newly, changed = EvaluateAchievements(p, mealSeries(1, false))
	assert.True(t, changed)
	assert.Equal(t, []string{"starter"}, newly)
	assert.True(t, p.EarnedBadges.Contains("starter"))
}

func TestMealFiftyExactThreshold(t *testing.T) {
	p := &models.UserProfile{GoalCalories: 2000, Streak: 1}

	EvaluateAchievements(p, mealSeries(49, false))
	assert.False(t, p.EarnedBadges.Contains("meal_50"))

	newly, _ := EvaluateAchievements(p, mealSeries(50, false))
	assert.Contains(t, newly, "meal_50")
}

func TestPhotoBadgeThresholds(t *testing.T) {
	p := &models.UserProfile{GoalCalories: 2000, Streak: 1}

	EvaluateAchievements(p, mealSeries(4, true))
	assert.False(t, p.EarnedBadges.Contains("camera_5"))
	assert.False(t, p.EarnedBadges.Contains("photo_10"))

	EvaluateAchievements(p, mealSeries(5, true))
	assert.True(t, p.EarnedBadges.Contains("camera_5"))
	assert.False(t, p.EarnedBadges.Contains("photo_10"))

	EvaluateAchievements(p, mealSeries(10, true))
	assert.True(t, p.EarnedBadges.Contains("photo_10"))
}

func TestStreakBadges(t *testing.T) {
	tests := []struct {
		streak   int
		want7    bool
		want30   bool
	}{
		{streak: 6, want7: false, want30: false},
		{streak: 7, want7: true, want30: false},
		{streak: 30, want7: true, want30: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("streak %d", tt.streak), func(t *testing.T) {
			p := &models.UserProfile{GoalCalories: 2000, Streak: tt.streak}
			EvaluateAchievements(p, mealSeries(1, false))
			assert.Equal(t, tt.want7, p.EarnedBadges.Contains("streak_7"))
			assert.Equal(t, tt.want30, p.EarnedBadges.Contains("streak_30"))
		})
	}
}

func TestSniperBoundary(t *testing.T) {
	goal := 2000

	// A day landing exactly 50 kcal under the goal unlocks sniper.
	p := &models.UserProfile{GoalCalories: goal, Streak: 1}
	newly, _ := EvaluateAchievements(p, []models.Meal{mealOn("2024-02-01", 1950, false)})
	assert.Contains(t, newly, "sniper")

	// At 51 kcal off, with no other qualifying day, it stays locked.
	p = &models.UserProfile{GoalCalories: goal, Streak: 1}
	EvaluateAchievements(p, []models.Meal{mealOn("2024-02-01", 1949, false)})
	assert.False(t, p.EarnedBadges.Contains("sniper"))
}

func TestSniperSumsWholeDay(t *testing.T) {
	p := &models.UserProfile{GoalCalories: 2000, Streak: 1}
	meals := []models.Meal{
		mealOn("2024-02-01", 1000, false),
		mealOn("2024-02-01", 980, false), // same day, totals 1980
		mealOn("2024-02-02", 300, false),
	}

	EvaluateAchievements(p, meals)
	assert.True(t, p.EarnedBadges.Contains("sniper"))
}

func TestBadgesAreNeverRevoked(t *testing.T) {
	p := &models.UserProfile{GoalCalories: 2000, Streak: 8}

	EvaluateAchievements(p, mealSeries(50, true))
	earned := append(models.BadgeList{}, p.EarnedBadges...)
	assert.NotEmpty(t, earned)

	// Deleting every meal and dropping the streak must not shrink the set.
	p.Streak = 1
	newly, changed := EvaluateAchievements(p, nil)
	assert.False(t, changed)
	assert.Empty(t, newly)
	assert.ElementsMatch(t, earned, p.EarnedBadges)
}

func TestEvaluateReportsOnlyNewBadges(t *testing.T) {
	p := &models.UserProfile{GoalCalories: 2000, Streak: 1, EarnedBadges: models.BadgeList{"starter"}}

	newly, changed := EvaluateAchievements(p, mealSeries(50, false))
	assert.True(t, changed)
	assert.NotContains(t, newly, "starter")
	assert.Contains(t, newly, "meal_50")
}

func TestCatalogProgressMatchesTargets(t *testing.T) {
	s := Snapshot{Streak: 3, GoalCalories: 2000, MealCount: 12, PhotoCount: 2}

	for _, badge := range Catalog() {
		assert.NotEmpty(t, badge.ID)
		assert.Positive(t, badge.Target)
		assert.NotNil(t, badge.Unlocked)
		assert.NotNil(t, badge.Progress)
		if badge.Progress(s) >= badge.Target {
			assert.True(t, badge.Unlocked(s), "badge %s progress met but locked", badge.ID)
		}
	}
}

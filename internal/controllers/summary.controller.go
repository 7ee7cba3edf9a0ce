package controllers

import (
	"math"
	"net/http"
	"time"

	"nutrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type SummaryController struct {
	profileRepo repository.UserProfileRepository
	mealRepo    repository.MealRepository
	now         func() time.Time
}

func NewSummaryController(profileRepo repository.UserProfileRepository, mealRepo repository.MealRepository) *SummaryController {
	return &SummaryController{
		profileRepo: profileRepo,
		mealRepo:    mealRepo,
		now:         time.Now,
	}
}

// GetTodaySummary godoc
// @Summary Today's consumption vs goals
// @Description Sum today's logged meals and compare against the daily calorie and macro targets.
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Summary retrieved successfully"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Router /summary/today [get]
func (sc *SummaryController) GetTodaySummary(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}
	uid := userID.(uint)

	profile, err := sc.profileRepo.FindByUserID(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Profile not found",
			"error":   "No profile exists for this user",
		})
		return
	}

	today := sc.now().Format("2006-01-02")
	meals, err := sc.mealRepo.FindByUserIDAndDate(uid, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load meals",
			"error":   err.Error(),
		})
		return
	}

	var calories, protein, carbs, fat float64
	for i := range meals {
		calories += meals[i].TotalCalories
		protein += meals[i].TotalProtein
		carbs += meals[i].TotalCarbs
		fat += meals[i].TotalFat
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Summary retrieved successfully",
		"data": gin.H{
			"date":       today,
			"meal_count": len(meals),
			"consumed": gin.H{
				"calories": calories,
				"protein":  protein,
				"carbs":    carbs,
				"fat":      fat,
			},
			"goals": gin.H{
				"calories": profile.GoalCalories,
				"protein":  profile.GoalProtein,
				"carbs":    profile.GoalCarbs,
				"fat":      profile.GoalFat,
			},
			"remaining": gin.H{
				"calories": math.Max(0, float64(profile.GoalCalories)-calories),
				"protein":  math.Max(0, float64(profile.GoalProtein)-protein),
				"carbs":    math.Max(0, float64(profile.GoalCarbs)-carbs),
				"fat":      math.Max(0, float64(profile.GoalFat)-fat),
			},
			"streak": profile.Streak,
		},
	})
}

// GetCalendarSummary godoc
// @Summary Monthly calendar of logged days
// @Description Per-day status for a month: "met" when the day's calories reached the goal, "tracked" when anything was logged, "empty" otherwise. Includes monthly meal count and average kcal per tracked day.
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {object} map[string]interface{} "Calendar retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid month"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Router /summary/calendar [get]
func (sc *SummaryController) GetCalendarSummary(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}
	uid := userID.(uint)

	profile, err := sc.profileRepo.FindByUserID(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Profile not found",
			"error":   "No profile exists for this user",
		})
		return
	}

	monthParam := c.Query("month")
	if monthParam == "" {
		monthParam = sc.now().Format("2006-01")
	}
	firstDay, err := time.Parse("2006-01", monthParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid month",
			"error":   "Use format YYYY-MM",
		})
		return
	}
	lastDay := firstDay.AddDate(0, 1, -1)

	meals, err := sc.mealRepo.FindByUserIDAndDateRange(uid,
		firstDay.Format("2006-01-02"), lastDay.Format("2006-01-02"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load meals",
			"error":   err.Error(),
		})
		return
	}

	caloriesByDate := make(map[string]float64)
	mealsByDate := make(map[string]int)
	for i := range meals {
		caloriesByDate[meals[i].Date] += meals[i].TotalCalories
		mealsByDate[meals[i].Date]++
	}

	days := make([]gin.H, 0, lastDay.Day())
	trackedDays := 0
	var trackedCalories float64
	for d := firstDay; !d.After(lastDay); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		total := caloriesByDate[date]
		status := dayStatus(total, profile.GoalCalories)
		if status != "empty" {
			trackedDays++
			trackedCalories += total
		}
		days = append(days, gin.H{
			"date":       date,
			"status":     status,
			"calories":   total,
			"meal_count": mealsByDate[date],
		})
	}

	averageCalories := 0.0
	if trackedDays > 0 {
		averageCalories = math.Round(trackedCalories / float64(trackedDays))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Calendar retrieved successfully",
		"data": gin.H{
			"month":            monthParam,
			"days":             days,
			"meal_count":       len(meals),
			"tracked_days":     trackedDays,
			"average_calories": averageCalories,
		},
	})
}

func dayStatus(dayCalories float64, goalCalories int) string {
	switch {
	case dayCalories >= float64(goalCalories) && goalCalories > 0:
		return "met"
	case dayCalories > 0:
		return "tracked"
	default:
		return "empty"
	}
}

package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nutrack/internal/controllers"
	"nutrack/internal/models"
	"nutrack/tests/mocks"

	"github.com/stretchr/testify/assert"
)

func setupAchievementControllerWithMock() (*controllers.AchievementController, *mocks.MockUserProfileRepository, *mocks.MockMealRepository) {
	mockProfileRepo := new(mocks.MockUserProfileRepository)
	mockMealRepo := new(mocks.MockMealRepository)
	controller := controllers.NewAchievementController(mockProfileRepo, mockMealRepo)
	return controller, mockProfileRepo, mockMealRepo
}

func TestGetAchievements(t *testing.T) {
	controller, mockProfileRepo, mockMealRepo := setupAchievementControllerWithMock()

	profile := &models.UserProfile{
		ID:           1,
		UserID:       1,
		GoalCalories: 2000,
		Streak:       8,
		EarnedBadges: models.BadgeList{"starter", "streak_7"},
	}
	mockProfileRepo.On("FindByUserID", uint(1)).Return(profile, nil)

	photo := "https://cdn.example.com/m1.jpg"
	meals := []models.Meal{
		{ID: "m1", Date: "2023-06-15", TotalCalories: 1980, ImageURL: &photo},
		{ID: "m2", Date: "2023-06-16", TotalCalories: 700},
		{ID: "m3", Date: "2023-06-16", TotalCalories: 500},
	}
	mockMealRepo.On("FindAllByUserID", uint(1)).Return(meals, nil)

	router := setupProfileTestRouter()
	router.Use(addProfileAuthMiddleware(1))
	router.GET("/achievements", controller.GetAchievements)

	req := httptest.NewRequest("GET", "/achievements", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	badges := data["badges"].([]interface{})
	assert.Len(t, badges, 7)
	assert.Equal(t, float64(2), data["earned_count"])
	assert.Equal(t, float64(7), data["total_count"])
	assert.Equal(t, float64(8), data["streak"])

	byID := make(map[string]map[string]interface{})
	for _, raw := range badges {
		badge := raw.(map[string]interface{})
		byID[badge["id"].(string)] = badge
	}

	// Earned badges report earned=true
	assert.Equal(t, true, byID["starter"]["earned"])
	assert.Equal(t, true, byID["streak_7"]["earned"])
	assert.Equal(t, false, byID["meal_50"]["earned"])

	// Live progress toward unearned targets
	assert.Equal(t, float64(3), byID["meal_50"]["progress"])
	assert.Equal(t, float64(50), byID["meal_50"]["target"])
	assert.Equal(t, float64(1), byID["camera_5"]["progress"])
	assert.Equal(t, float64(8), byID["streak_30"]["progress"])

	// Progress is capped at the target once earned
	assert.Equal(t, float64(7), byID["streak_7"]["progress"])
	assert.Equal(t, float64(1), byID["starter"]["progress"])

	// 1980 kcal on 2023-06-15 lands within 50 of the 2000 goal
	assert.Equal(t, false, byID["sniper"]["earned"])
	assert.Equal(t, float64(1), byID["sniper"]["progress"])
}

func TestGetAchievementsRequiresProfile(t *testing.T) {
	controller, mockProfileRepo, _ := setupAchievementControllerWithMock()
	mockProfileRepo.On("FindByUserID", uint(1)).Return(nil, errors.New("not found"))

	router := setupProfileTestRouter()
	router.Use(addProfileAuthMiddleware(1))
	router.GET("/achievements", controller.GetAchievements)

	req := httptest.NewRequest("GET", "/achievements", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

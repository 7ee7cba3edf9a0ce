package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutrack/internal/controllers"
	"nutrack/internal/events"
	"nutrack/internal/models"
	"nutrack/tests/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Test helper functions
func setupProfileTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

func setupProfileControllerWithMock() (*controllers.UserProfileController, *mocks.MockUserProfileRepository, *mocks.MockMealRepository) {
	mockRepo := new(mocks.MockUserProfileRepository)
	mockMealRepo := new(mocks.MockMealRepository)
	controller := controllers.NewUserProfileController(mockRepo, mockMealRepo, events.NoopPublisher{})
	return controller, mockRepo, mockMealRepo
}

func addProfileAuthMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func validProfileInput() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Alex",
		"age":            30,
		"sex":            "male",
		"weight":         80,
		"height":         180,
		"activity_level": "moderate",
		"goal_type":      "maintenance",
	}
}

func TestNewUserProfileController(t *testing.T) {
	controller, _, _ := setupProfileControllerWithMock()
	assert.NotNil(t, controller)
}

func TestGetUserProfile(t *testing.T) {
	tests := []struct {
		name           string
		userID         uint
		setupMock      func(*mocks.MockUserProfileRepository)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "successful retrieval",
			userID: 1,
			setupMock: func(m *mocks.MockUserProfileRepository) {
				profile := &models.UserProfile{
					ID:           1,
					UserID:       1,
					Name:         "Alex",
					GoalCalories: 2759,
					Streak:       3,
				}
				m.On("FindByUserID", uint(1)).Return(profile, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "User profile retrieved successfully",
		},
		{
			name:   "profile not found",
			userID: 1,
			setupMock: func(m *mocks.MockUserProfileRepository) {
				m.On("FindByUserID", uint(1)).Return(nil, errors.New("profile not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Profile not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, mockRepo, _ := setupProfileControllerWithMock()
			tt.setupMock(mockRepo)

			router := setupProfileTestRouter()
			router.Use(addProfileAuthMiddleware(tt.userID))
			router.GET("/profile", controller.GetUserProfile)

			req := httptest.NewRequest("GET", "/profile", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.Contains(t, response["message"], tt.expectedMsg)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetUserProfileUnauthorized(t *testing.T) {
	controller, _, _ := setupProfileControllerWithMock()
	router := setupProfileTestRouter()
	router.GET("/profile", controller.GetUserProfile)

	req := httptest.NewRequest("GET", "/profile", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateUserProfileDerivesGoals(t *testing.T) {
	controller, mockRepo, _ := setupProfileControllerWithMock()

	var created *models.UserProfile
	mockRepo.On("Create", mock.AnythingOfType("*models.UserProfile")).
		Run(func(args mock.Arguments) {
			created = args.Get(0).(*models.UserProfile)
		}).
		Return(nil)

	router := setupProfileTestRouter()
	router.Use(addProfileAuthMiddleware(1))
	router.POST("/profile", controller.CreateUserProfile)

	body, _ := json.Marshal(validProfileInput())
	req := httptest.NewRequest("POST", "/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotNil(t, created)
	// 30y male, 80kg, 180cm, moderate, maintenance
	assert.Equal(t, 2759, created.GoalCalories)
	assert.Equal(t, 207, created.GoalProtein)
	assert.Equal(t, 241, created.GoalCarbs)
	assert.Equal(t, 107, created.GoalFat)
	assert.Equal(t, 1, created.Streak)
	assert.NotZero(t, created.LastLoginCheckpoint)
	assert.NotZero(t, created.LastMealCheckpoint)

	mockRepo.AssertExpectations(t)
}

func TestCreateUserProfileValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(map[string]interface{})
		expected int
	}{
		{
			name:     "valid input",
			mutate:   func(m map[string]interface{}) {},
			expected: http.StatusCreated,
		},
		{
			name:     "age out of range",
			mutate:   func(m map[string]interface{}) { m["age"] = 150 },
			expected: http.StatusBadRequest,
		},
		{
			name:     "weight out of range",
			mutate:   func(m map[string]interface{}) { m["weight"] = 5 },
			expected: http.StatusBadRequest,
		},
		{
			name:     "height out of range",
			mutate:   func(m map[string]interface{}) { m["height"] = 300 },
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown activity level",
			mutate:   func(m map[string]interface{}) { m["activity_level"] = "heroic" },
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown goal type",
			mutate:   func(m map[string]interface{}) { m["goal_type"] = "bulk" },
			expected: http.StatusBadRequest,
		},
		{
			name:     "missing sex",
			mutate:   func(m map[string]interface{}) { delete(m, "sex") },
			expected: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, mockRepo, _ := setupProfileControllerWithMock()
			mockRepo.On("Create", mock.AnythingOfType("*models.UserProfile")).Return(nil).Maybe()

			router := setupProfileTestRouter()
			router.Use(addProfileAuthMiddleware(1))
			router.POST("/profile", controller.CreateUserProfile)

			input := validProfileInput()
			tt.mutate(input)
			body, _ := json.Marshal(input)
			req := httptest.NewRequest("POST", "/profile", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestUpdateUserProfilePreservesEngagementState(t *testing.T) {
	controller, mockRepo, _ := setupProfileControllerWithMock()

	existing := &models.UserProfile{
		ID:                  1,
		UserID:              1,
		Streak:              12,
		LastLoginCheckpoint: 1700000000000,
		LastMealCheckpoint:  1700000000000,
		EarnedBadges:        models.BadgeList{"starter", "streak_7"},
		TotalMealsLogged:    40,
	}
	mockRepo.On("FindByUserID", uint(1)).Return(existing, nil)

	var updated *models.UserProfile
	mockRepo.On("Update", mock.AnythingOfType("*models.UserProfile")).
		Run(func(args mock.Arguments) {
			updated = args.Get(0).(*models.UserProfile)
		}).
		Return(nil)

	router := setupProfileTestRouter()
	router.Use(addProfileAuthMiddleware(1))
	router.PUT("/profile", controller.UpdateUserProfile)

	input := validProfileInput()
	input["goal_type"] = "weight_loss"
	body, _ := json.Marshal(input)
	req := httptest.NewRequest("PUT", "/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, updated)
	// Goals recalculated for the new objective
	assert.Equal(t, 2207, updated.GoalCalories)
	// Engagement state untouched
	assert.Equal(t, 12, updated.Streak)
	assert.Equal(t, int64(1700000000000), updated.LastLoginCheckpoint)
	assert.Equal(t, models.BadgeList{"starter", "streak_7"}, updated.EarnedBadges)
	assert.Equal(t, 40, updated.TotalMealsLogged)

	mockRepo.AssertExpectations(t)
}

func TestDeleteUserProfile(t *testing.T) {
	controller, mockRepo, _ := setupProfileControllerWithMock()
	mockRepo.On("DeleteByUserID", uint(1)).Return(nil)

	router := setupProfileTestRouter()
	router.Use(addProfileAuthMiddleware(1))
	router.DELETE("/profile", controller.DeleteUserProfile)

	req := httptest.NewRequest("DELETE", "/profile", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestLoginCheckpointIdempotentInsideWindow(t *testing.T) {
	controller, mockRepo, mockMealRepo := setupProfileControllerWithMock()

	recent := time.Now().Add(-2 * time.Hour).UnixMilli()
	profile := &models.UserProfile{
		ID:                  1,
		UserID:              1,
		Streak:              5,
		LastLoginCheckpoint: recent,
		LastMealCheckpoint:  recent,
		EarnedBadges:        models.BadgeList{"starter"},
	}
	mockRepo.On("FindByUserID", uint(1)).Return(profile, nil)
	mockMealRepo.On("FindAllByUserID", uint(1)).Return([]models.Meal{{ID: "m1", Date: "2023-01-01"}}, nil)

	router := setupProfileTestRouter()
	router.Use(addProfileAuthMiddleware(1))
	router.POST("/profile/checkpoint", controller.LoginCheckpoint)

	req := httptest.NewRequest("POST", "/profile/checkpoint", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, profile.Streak)
	// Nothing changed, so nothing was persisted
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestLoginCheckpointResetsAfterLongGap(t *testing.T) {
	controller, mockRepo, mockMealRepo := setupProfileControllerWithMock()

	stale := time.Now().Add(-49 * time.Hour).UnixMilli()
	profile := &models.UserProfile{
		ID:                  1,
		UserID:              1,
		Streak:              9,
		LastLoginCheckpoint: stale,
		LastMealCheckpoint:  stale,
		EarnedBadges:        models.BadgeList{"starter", "streak_7"},
	}
	mockRepo.On("FindByUserID", uint(1)).Return(profile, nil)
	mockMealRepo.On("FindAllByUserID", uint(1)).Return([]models.Meal{{ID: "m1", Date: "2023-01-01"}}, nil)
	mockRepo.On("Update", mock.AnythingOfType("*models.UserProfile")).Return(nil)

	router := setupProfileTestRouter()
	router.Use(addProfileAuthMiddleware(1))
	router.POST("/profile/checkpoint", controller.LoginCheckpoint)

	req := httptest.NewRequest("POST", "/profile/checkpoint", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, profile.Streak)
	// Badges already earned survive the reset
	assert.Contains(t, profile.EarnedBadges, "streak_7")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["streak"])

	mockRepo.AssertExpectations(t)
}

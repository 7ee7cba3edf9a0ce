package controllers

import (
	"net/http"
	"time"

	"nutrack/internal/engagement"
	"nutrack/internal/events"
	"nutrack/internal/goals"
	"nutrack/internal/models"
	"nutrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type UserProfileController struct {
	repo      repository.UserProfileRepository
	mealRepo  repository.MealRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewUserProfileController(repo repository.UserProfileRepository, mealRepo repository.MealRepository, publisher events.Publisher) *UserProfileController {
	return &UserProfileController{
		repo:      repo,
		mealRepo:  mealRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

func applyGoals(profile *models.UserProfile, input *models.ProfileInput) {
	profile.Name = input.Name
	profile.Age = input.Age
	profile.Sex = input.Sex
	profile.Weight = input.Weight
	profile.Height = input.Height
	profile.ActivityLevel = input.ActivityLevel
	profile.GoalType = input.GoalType

	derived := goals.Calculate(goals.Input{
		Age:      input.Age,
		Sex:      goals.Sex(input.Sex),
		WeightKg: input.Weight,
		HeightCm: input.Height,
		Activity: goals.ActivityLevel(input.ActivityLevel),
		Goal:     goals.GoalType(input.GoalType),
	})
	profile.GoalCalories = derived.Calories
	profile.GoalProtein = derived.ProteinG
	profile.GoalCarbs = derived.CarbsG
	profile.GoalFat = derived.FatG
}

// GetUserProfile godoc
// @Summary Get user profile
// @Description Retrieve the authenticated user's profile with derived goals and engagement state
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "User profile retrieved successfully"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /profile [get]
func (pc *UserProfileController) GetUserProfile(c *gin.Context) {
	// Get user ID from the JWT token (set by middleware)
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}

	profile, err := pc.repo.FindByUserID(userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Profile not found",
			"error":   "No profile exists for this user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User profile retrieved successfully",
		"data":    profile,
	})
}

// CreateUserProfile godoc
// @Summary Create user profile
// @Description Create a profile for the authenticated user. Daily goals are derived from the biometrics; they cannot be set directly.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body models.ProfileInput true "Profile data"
// @Success 201 {object} map[string]interface{} "Profile created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 409 {object} map[string]interface{} "Profile already exists"
// @Router /profile [post]
func (pc *UserProfileController) CreateUserProfile(c *gin.Context) {
	var input models.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	// Get user ID from the JWT token
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}

	if err := goals.ValidateBiometrics(input.Age, input.Weight, input.Height); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	nowMs := pc.now().UnixMilli()
	profile := models.UserProfile{
		UserID:              userID.(uint),
		Streak:              1,
		LastLoginCheckpoint: nowMs,
		LastMealCheckpoint:  nowMs,
		EarnedBadges:        models.BadgeList{},
	}
	applyGoals(&profile, &input)

	if err := pc.repo.Create(&profile); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Failed to create profile",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Profile created successfully",
		"data":    profile,
	})
}

// UpdateUserProfile godoc
// @Summary Update user profile
// @Description Update biometrics and goal type. Goals are recalculated; streak and badges are preserved.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body models.ProfileInput true "Profile data"
// @Success 200 {object} map[string]interface{} "Profile updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Failure 500 {object} map[string]interface{} "Failed to update profile"
// @Router /profile [put]
func (pc *UserProfileController) UpdateUserProfile(c *gin.Context) {
	var input models.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}

	if err := goals.ValidateBiometrics(input.Age, input.Weight, input.Height); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	profile, err := pc.repo.FindByUserID(userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Profile not found",
			"error":   "No profile exists for this user",
		})
		return
	}

	// Engagement state (streak, checkpoints, badges) rides along untouched;
	// only biometrics and the derived goals change.
	applyGoals(profile, &input)

	if err := pc.repo.Update(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update profile",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile updated successfully",
		"data":    profile,
	})
}

// DeleteUserProfile godoc
// @Summary Delete user profile
// @Description Delete the authenticated user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Profile deleted successfully"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Failed to delete profile"
// @Router /profile [delete]
func (pc *UserProfileController) DeleteUserProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}

	if err := pc.repo.DeleteByUserID(userID.(uint)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete profile",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Profile deleted successfully",
		"data":    nil,
	})
}

// LoginCheckpoint godoc
// @Summary Evaluate streak on session start
// @Description Run the login checkpoint: a 48h gap without a logged meal resets the streak. Idempotent; repeated calls inside the window change nothing.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Checkpoint evaluated"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Failure 500 {object} map[string]interface{} "Failed to save checkpoint"
// @Router /profile/checkpoint [post]
func (pc *UserProfileController) LoginCheckpoint(c *gin.Context) {
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

	profile, err := pc.repo.FindByUserID(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Profile not found",
			"error":   "No profile exists for this user",
		})
		return
	}

	meals, err := pc.mealRepo.FindAllByUserID(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load meals",
			"error":   err.Error(),
		})
		return
	}

	now := pc.now()
	previousStreak := profile.Streak
	streakChanged := engagement.ApplyLoginCheckpoint(profile, now, len(meals))
	newlyEarned, badgesChanged := engagement.EvaluateAchievements(profile, meals)

	if streakChanged || badgesChanged {
		if err := pc.repo.Update(profile); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to save checkpoint",
				"error":   err.Error(),
			})
			return
		}
		publishEngagementEvents(pc.publisher, uid, profile.Streak, previousStreak, newlyEarned, "")
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Checkpoint evaluated",
		"data": gin.H{
			"streak":        profile.Streak,
			"newly_earned":  newlyEarned,
			"earned_badges": profile.EarnedBadges,
		},
	})
}

// publishEngagementEvents emits best-effort notifications. Failures are
// swallowed; the broker must never fail a request.
func publishEngagementEvents(publisher events.Publisher, userID uint, streak, previousStreak int, newlyEarned []string, mealID string) {
	if publisher == nil {
		return
	}
	now := time.Now().UnixMilli()
	if mealID != "" {
		_ = publisher.Publish(events.EngagementEvent{
			Type:      events.EventMealLogged,
			UserID:    userID,
			MealID:    mealID,
			Timestamp: now,
		})
	}
	if streak != previousStreak {
		_ = publisher.Publish(events.EngagementEvent{
			Type:      events.EventStreakChanged,
			UserID:    userID,
			Streak:    streak,
			Timestamp: now,
		})
	}
	if len(newlyEarned) > 0 {
		_ = publisher.Publish(events.EngagementEvent{
			Type:      events.EventBadgeUnlocked,
			UserID:    userID,
			BadgeIDs:  newlyEarned,
			Timestamp: now,
		})
	}
}

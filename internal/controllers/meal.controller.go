package controllers

import (
	"encoding/base64"
	"log"
	"net/http"
	"time"

	"nutrack/internal/engagement"
	"nutrack/internal/events"
	"nutrack/internal/models"
	"nutrack/internal/repository"
	"nutrack/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MealController struct {
	mealRepo    repository.MealRepository
	profileRepo repository.UserProfileRepository
	uploader    storage.ImageUploader
	publisher   events.Publisher
	now         func() time.Time
}

func NewMealController(mealRepo repository.MealRepository, profileRepo repository.UserProfileRepository, uploader storage.ImageUploader, publisher events.Publisher) *MealController {
	return &MealController{
		mealRepo:    mealRepo,
		profileRepo: profileRepo,
		uploader:    uploader,
		publisher:   publisher,
		now:         time.Now,
	}
}

// GetMeals godoc
// @Summary List meals
// @Description List the authenticated user's meals, newest first. Filter to a single day with ?date=YYYY-MM-DD.
// @Tags meals
// @Produce json
// @Security BearerAuth
// @Param date query string false "Calendar day filter (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{} "Meals retrieved successfully"
// @Failure 400 {object} map[string]interface{} "Invalid date"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /meals [get]
func (mc *MealController) GetMeals(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}

	var meals []models.Meal
	var err error
	if date := c.Query("date"); date != "" {
		if _, parseErr := time.Parse("2006-01-02", date); parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid date",
				"error":   "Use format YYYY-MM-DD",
			})
			return
		}
		meals, err = mc.mealRepo.FindByUserIDAndDate(userID.(uint), date)
	} else {
		meals, err = mc.mealRepo.FindAllByUserID(userID.(uint))
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load meals",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Meals retrieved successfully",
		"data":    meals,
	})
}

// CreateMeal godoc
// @Summary Log a meal
// @Description Save a meal, recompute its totals server-side, advance the streak checkpoint and re-evaluate badges. Photo upload failure is soft: the meal is saved without an image.
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meal body models.MealInput true "Meal data"
// @Success 201 {object} map[string]interface{} "Meal logged successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Failure 500 {object} map[string]interface{} "Failed to save meal"
// @Router /meals [post]
func (mc *MealController) CreateMeal(c *gin.Context) {
	var input models.MealInput
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
	uid := userID.(uint)

	// Meals require an onboarded profile: the checkpoint and badge state
	// live on it.
	profile, err := mc.profileRepo.FindByUserID(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Profile not found",
			"error":   "No profile exists for this user",
		})
		return
	}

	now := mc.now()
	meal := models.Meal{
		ID:        uuid.NewString(),
		UserID:    uid,
		Date:      now.Format("2006-01-02"),
		Timestamp: now.UnixMilli(),
		Name:      input.Name,
		Items:     input.Items,
	}
	meal.ComputeTotals()

	if input.ImageBase64 != "" {
		if url := mc.uploadImage(c, input.ImageBase64, input.ImageMimeType, uid); url != "" {
			meal.ImageURL = &url
		}
	}

	if err := mc.mealRepo.Create(&meal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to save meal",
			"error":   err.Error(),
		})
		return
	}

	meals, err := mc.mealRepo.FindAllByUserID(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load meals",
			"error":   err.Error(),
		})
		return
	}

	previousStreak := profile.Streak
	engagement.ApplyMealCheckpoint(profile, now, len(meals))
	newlyEarned, _ := engagement.EvaluateAchievements(profile, meals)

	if err := mc.profileRepo.Update(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update streak",
			"error":   err.Error(),
		})
		return
	}

	publishEngagementEvents(mc.publisher, uid, profile.Streak, previousStreak, newlyEarned, meal.ID)

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Meal logged successfully",
		"data": gin.H{
			"meal":         meal,
			"streak":       profile.Streak,
			"newly_earned": newlyEarned,
		},
	})
}

// uploadImage decodes and uploads a meal photo. Any failure is logged and
// swallowed; the caller saves the meal without an image.
func (mc *MealController) uploadImage(c *gin.Context, imageBase64, mimeType string, userID uint) string {
	if mc.uploader == nil {
		return ""
	}
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		log.Printf("meal photo discarded, invalid base64: %v", err)
		return ""
	}
	url, err := mc.uploader.Upload(c.Request.Context(), data, mimeType, userID)
	if err != nil {
		log.Printf("meal photo upload failed, saving meal without image: %v", err)
		return ""
	}
	return url
}

// UpdateMeal godoc
// @Summary Update a meal
// @Description Fully replace a meal's name and items; totals are recomputed. Badges are re-evaluated but never revoked.
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Param meal body models.MealInput true "Meal data"
// @Success 200 {object} map[string]interface{} "Meal updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Meal not found"
// @Failure 500 {object} map[string]interface{} "Failed to update meal"
// @Router /meals/{id} [put]
func (mc *MealController) UpdateMeal(c *gin.Context) {
	var input models.MealInput
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
	uid := userID.(uint)

	meal, err := mc.mealRepo.FindByID(c.Param("id"))
	if err != nil || meal.UserID != uid {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Meal not found",
			"error":   "No meal exists with this id",
		})
		return
	}

	// Full replace; date, timestamp and image stay as logged.
	meal.Name = input.Name
	meal.Items = input.Items
	meal.ComputeTotals()

	if err := mc.mealRepo.Update(meal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update meal",
			"error":   err.Error(),
		})
		return
	}

	mc.reevaluateBadges(uid)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Meal updated successfully",
		"data":    meal,
	})
}

// DeleteMeal godoc
// @Summary Delete a meal
// @Description Delete a meal. The streak and already earned badges are unaffected.
// @Tags meals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal ID"
// @Success 200 {object} map[string]interface{} "Meal deleted successfully"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Meal not found"
// @Failure 500 {object} map[string]interface{} "Failed to delete meal"
// @Router /meals/{id} [delete]
func (mc *MealController) DeleteMeal(c *gin.Context) {
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

	meal, err := mc.mealRepo.FindByID(c.Param("id"))
	if err != nil || meal.UserID != uid {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Meal not found",
			"error":   "No meal exists with this id",
		})
		return
	}

	if err := mc.mealRepo.Delete(meal.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete meal",
			"error":   err.Error(),
		})
		return
	}

	// Badges are monotonic, so this can only top up progress that the
	// remaining meals still justify. It never revokes anything.
	mc.reevaluateBadges(uid)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Meal deleted successfully",
		"data":    nil,
	})
}

// reevaluateBadges runs a badge pass after an edit. The badge merge is
// monotonic, so edits can only unlock, never revoke. Best-effort: a failure
// here does not fail the request that triggered it.
func (mc *MealController) reevaluateBadges(userID uint) {
	profile, err := mc.profileRepo.FindByUserID(userID)
	if err != nil {
		return
	}
	meals, err := mc.mealRepo.FindAllByUserID(userID)
	if err != nil {
		return
	}
	newlyEarned, changed := engagement.EvaluateAchievements(profile, meals)
	if !changed {
		return
	}
	if err := mc.profileRepo.Update(profile); err != nil {
		log.Printf("badge re-evaluation write failed for user %d: %v", userID, err)
		return
	}
	publishEngagementEvents(mc.publisher, userID, profile.Streak, profile.Streak, newlyEarned, "")
}

package controllers

import (
	"net/http"

	"nutrack/internal/engagement"
	"nutrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	profileRepo repository.UserProfileRepository
	mealRepo    repository.MealRepository
}

func NewAchievementController(profileRepo repository.UserProfileRepository, mealRepo repository.MealRepository) *AchievementController {
	return &AchievementController{profileRepo: profileRepo, mealRepo: mealRepo}
}

// GetAchievements godoc
// @Summary List badges with progress
// @Description Return the full badge catalog with per-badge earned state and live progress toward each target.
// @Tags achievements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Achievements retrieved successfully"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Profile not found"
// @Router /achievements [get]
func (ac *AchievementController) GetAchievements(c *gin.Context) {
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

	profile, err := ac.profileRepo.FindByUserID(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Profile not found",
			"error":   "No profile exists for this user",
		})
		return
	}

	meals, err := ac.mealRepo.FindAllByUserID(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load meals",
			"error":   err.Error(),
		})
		return
	}

	snapshot := engagement.NewSnapshot(profile, meals)
	catalog := engagement.Catalog()

	badges := make([]gin.H, 0, len(catalog))
	earnedCount := 0
	for _, badge := range catalog {
		earned := profile.EarnedBadges.Contains(badge.ID)
		progress := badge.Progress(snapshot)
		// A stored badge stays earned even if the live predicate no longer
		// holds; show it at full progress.
		if earned && progress < badge.Target {
			progress = badge.Target
		}
		if progress > badge.Target {
			progress = badge.Target
		}
		if earned {
			earnedCount++
		}
		badges = append(badges, gin.H{
			"id":          badge.ID,
			"name":        badge.Name,
			"description": badge.Description,
			"icon":        badge.Icon,
			"target":      badge.Target,
			"progress":    progress,
			"earned":      earned,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Achievements retrieved successfully",
		"data": gin.H{
			"badges":       badges,
			"earned_count": earnedCount,
			"total_count":  len(catalog),
			"streak":       profile.Streak,
		},
	})
}

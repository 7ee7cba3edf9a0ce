package routes

import (
	"nutrack/internal/controllers"
	"nutrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterAchievementRoutes(router *gin.Engine, achievementController *controllers.AchievementController) {
	achievementRoutes := router.Group("/achievements")
	achievementRoutes.Use(middleware.AuthMiddleware())
	{
		achievementRoutes.GET("/", achievementController.GetAchievements)
	}
}

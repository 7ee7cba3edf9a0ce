package routes

import (
	"nutrack/internal/controllers"
	"nutrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterMealRoutes(router *gin.Engine, mealController *controllers.MealController) {
	mealRoutes := router.Group("/meals")
	mealRoutes.Use(middleware.AuthMiddleware())
	{
		mealRoutes.GET("/", mealController.GetMeals)
		mealRoutes.POST("/", mealController.CreateMeal)
		mealRoutes.PUT("/:id", mealController.UpdateMeal)
		mealRoutes.DELETE("/:id", mealController.DeleteMeal)
	}
}

package routes

import (
	"nutrack/internal/controllers"
	"nutrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterSummaryRoutes(router *gin.Engine, summaryController *controllers.SummaryController) {
	summaryRoutes := router.Group("/summary")
	summaryRoutes.Use(middleware.AuthMiddleware())
	{
		summaryRoutes.GET("/today", summaryController.GetTodaySummary)
		summaryRoutes.GET("/calendar", summaryController.GetCalendarSummary)
	}
}

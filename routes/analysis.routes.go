package routes

import (
	"nutrack/internal/controllers"
	"nutrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterAnalysisRoutes(router *gin.Engine, analysisController *controllers.AnalysisController) {
	analysisRoutes := router.Group("/analysis")
	analysisRoutes.Use(middleware.AuthMiddleware())
	{
		analysisRoutes.POST("/", analysisController.SubmitAnalysis)
		analysisRoutes.GET("/:id", analysisController.GetAnalysisJob)
		analysisRoutes.DELETE("/:id", analysisController.CancelAnalysisJob)
	}
}

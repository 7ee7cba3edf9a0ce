package main

import (
	"log"
	"net/http"
	"os"
	"runtime"
	"time"

	"nutrack/database"
	"nutrack/docs"
	"nutrack/internal/cache"
	"nutrack/internal/controllers"
	"nutrack/internal/events"
	"nutrack/internal/repository"
	"nutrack/internal/services"
	"nutrack/internal/storage"
	"nutrack/internal/vision"
	"nutrack/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Swagger Documentation
	docs.SwaggerInfo.Title = "Nutrack API"
	docs.SwaggerInfo.Description = "Personal nutrition tracking API with streaks, badges and async meal photo analysis."
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	database.MonitorDBConnections()

	profileRepo := repository.NewUserProfileRepository(database.DB)
	mealRepo := repository.NewMealRepository(database.DB)
	analysisJobRepo := repository.NewAnalysisJobRepository(database.DB)

	// Redis caches completed analysis results until the client collects them.
	redisClient, err := cache.NewRedisClient()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Engagement events are best-effort; run without a broker if unavailable.
	var publisher events.Publisher
	publisher, err = events.NewRabbitPublisher()
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, engagement events disabled: %v", err)
		publisher = events.NoopPublisher{}
	}
	defer publisher.Close()

	visionClient := vision.NewClient()
	imageUploader := storage.NewClient()

	workerCount := runtime.NumCPU()
	if workerCount < 3 {
		workerCount = 3
	}

	analysisWorker := services.NewAnalysisJobWorker(
		analysisJobRepo,
		visionClient,
		redisClient,
		workerCount,
	)

	log.Printf("Starting analysis job worker with %d workers...", workerCount)
	analysisWorker.Start()
	defer analysisWorker.Stop()

	// Initialize controllers
	profileController := controllers.NewUserProfileController(profileRepo, mealRepo, publisher)
	mealController := controllers.NewMealController(mealRepo, profileRepo, imageUploader, publisher)
	analysisController := controllers.NewAnalysisController(analysisJobRepo, analysisWorker, redisClient)
	achievementController := controllers.NewAchievementController(profileRepo, mealRepo)
	summaryController := controllers.NewSummaryController(profileRepo, mealRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message":  "Nutrack API is running",
			"version":  "1.0.0",
			"status":   "healthy",
			"analysis": "Async meal photo analysis jobs",
		})
	})

	routes.RegisterSwaggerRoutes(router)
	routes.RegisterUserProfileRoutes(router, profileController)
	routes.RegisterMealRoutes(router, mealController)
	routes.RegisterAnalysisRoutes(router, analysisController)
	routes.RegisterAchievementRoutes(router, achievementController)
	routes.RegisterSummaryRoutes(router, summaryController)

	// Debug endpoints
	router.GET("/debug/stats", func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		redisStatus, _ := redisClient.GetStatus()
		c.JSON(200, gin.H{
			"goroutines":         runtime.NumGoroutine(),
			"memory_mb":          m.Alloc / 1024 / 1024,
			"workers":            workerCount,
			"job_worker_running": analysisWorker.IsRunning(),
			"redis":              redisStatus,
		})
	})

	router.GET("/debug/database", func(c *gin.Context) {
		sqlDB, err := database.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{
				"database_health": false,
				"error":           err.Error(),
			})
			return
		}

		var result int
		row := sqlDB.QueryRowContext(c.Request.Context(), "SELECT 1")
		err = row.Scan(&result)
		c.JSON(200, gin.H{
			"database_health": err == nil && result == 1,
		})
	})

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Printf("API Documentation: http://localhost:%s/swagger/index.html", port)

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

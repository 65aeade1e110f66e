package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/leettrack/leettrack/internal/auth"
	"github.com/leettrack/leettrack/internal/health"
	"github.com/leettrack/leettrack/internal/notify"
	"github.com/leettrack/leettrack/internal/problem"
	"github.com/leettrack/leettrack/internal/user"
	"github.com/leettrack/leettrack/pkg/database"
	"github.com/leettrack/leettrack/pkg/logger"
	"github.com/leettrack/leettrack/pkg/metrics"
)

func main() {
	// Load environment variables from .env if present (optional)
	_ = godotenv.Load()

	// Initialize logger
	logLevel := logger.INFO
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logLevel = logger.LogLevel(level)
	}
	jsonFormat := os.Getenv("LOG_FORMAT") == "json"
	logger.Init(logLevel, jsonFormat, os.Stdout)

	log := logger.GetLogger().WithContext("component", "api_server")
	log.Info("starting_api_server", "version", "1.0.0")

	// Initialize database
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/leettrack.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Error("failed_to_initialize_database", "error", err.Error(), "path", dbPath)
		os.Exit(1)
	}
	defer db.Close()

	// Get JWT secret from environment or use default (change in production!)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-this-in-production"
		log.Warn("using_default_jwt_secret", "message", "Set JWT_SECRET environment variable in production!")
	}

	//frontend URL from environment or use default
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
		log.Info("using_default_frontend_url", "url", frontendURL)
	}

	// Initialize services and handlers
	hub := notify.NewHub()
	source := problem.NewLeetCodeSource()
	problemService := problem.NewService(problem.NewStore(db), source)

	authHandler := auth.NewHandler(db, jwtSecret)
	problemHandler := problem.NewHandler(problemService, hub)
	userHandler := user.NewHandler(db, problemService, hub)
	healthHandler := health.NewHandler(db)
	wsHandler := notify.NewWSHandler(hub)

	// Setup Gin router
	router := gin.Default()

	// CORS middleware configuration
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{frontendURL}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.ExposeHeaders = []string{"Content-Length"}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	// Health and metrics endpoints
	router.GET("/health", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", metrics.NewHandler().Metrics)

	// Auth routes (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}
	// Protected account routes
	protectedAuth := router.Group("/auth")
	protectedAuth.Use(auth.AuthMiddleware(jwtSecret))
	{
		protectedAuth.POST("/change-password", authHandler.ChangePassword)
	}

	// Problem routes (public for catalog reads, protected for tracking)
	problemGroup := router.Group("/problems")
	{
		problemGroup.GET("/curated", problemHandler.Curated)
		problemGroup.GET("/:slug", problemHandler.GetProblem)

		// Protected routes
		protected := problemGroup.Group("")
		protected.Use(auth.AuthMiddleware(jwtSecret))
		{
			protected.GET("", problemHandler.ListProblems)         // List tracked problems
			protected.POST("", problemHandler.AddProblem)          // Add problem to list
			protected.POST("/fetch", problemHandler.FetchProblem)  // Fetch from external source
			protected.PUT("/:slug", problemHandler.UpdateProblem)  // Partial progress update
			protected.PUT("/:slug/rating", problemHandler.UpdateRating)
			protected.PUT("/:slug/status", problemHandler.UpdateStatus)
			protected.POST("/:slug/attempts", userHandler.AddAttempt)
			protected.GET("/:slug/attempts", userHandler.ListAttempts)
			protected.POST("/:slug/snippets", userHandler.AddSnippet)
			protected.GET("/:slug/snippets", userHandler.ListSnippets)
		}
	}

	// User routes (all protected)
	userGroup := router.Group("/users")
	userGroup.Use(auth.AuthMiddleware(jwtSecret))
	{
		userGroup.GET("/me", userHandler.GetProfile)
	}
	router.DELETE("/user/progress", auth.AuthMiddleware(jwtSecret), userHandler.ClearProgress)

	// WebSocket progress feed
	router.GET("/ws", auth.AuthMiddleware(jwtSecret), wsHandler.Serve)

	// Get port from environment or use default
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("starting_api_server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("failed_to_start_api_server", "error", err.Error())
		os.Exit(1)
	}
}

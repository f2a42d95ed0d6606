package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/MicroFocus/ppm-smartsheet-connector/internal/api/handlers"
	"github.com/MicroFocus/ppm-smartsheet-connector/internal/config"
	"github.com/MicroFocus/ppm-smartsheet-connector/internal/middleware"
	"github.com/MicroFocus/ppm-smartsheet-connector/internal/repository"
	"github.com/MicroFocus/ppm-smartsheet-connector/internal/service"
	"github.com/MicroFocus/ppm-smartsheet-connector/internal/smartsheet"
)

func main() {

	// LOAD ENV
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed load config:", err)
	}

	// INIT DB
	repo, err := repository.NewPostgresRepoFromConfig(&repository.DBConfig{
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	// MIGRATIONS
	if err := repo.RunMigrations(context.Background()); err != nil {
		log.Fatal("migration error:", err)
	}

	// ADMIN SEED
	hashed, _ := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err := repo.UpsertAdmin(context.Background(), cfg.AdminUsername, string(hashed)); err != nil {
		log.Println("failed seeding admin:", err)
	} else {
		log.Println("admin seeded OK")
	}

	// SERVICES
	client := smartsheet.NewClient(cfg.SmartsheetToken)
	if cfg.SmartsheetBaseURL != "" {
		client.BaseURL = cfg.SmartsheetBaseURL
	}
	syncService := service.NewSyncService(client, repo)

	// HANDLERS
	authHandler := handlers.NewAuthHandler(repo, cfg.JWTSecret)
	sheetHandler := handlers.NewSheetHandler(syncService)
	syncHandler := handlers.NewSyncHandler(syncService)

	// ROUTER
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api := r.Group("/api/v1")

	// AUTH ROUTES
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// SMARTSHEET ROUTES
	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/sheets", sheetHandler.ListSheets)
		protected.GET("/sheets/:id/columns", sheetHandler.GetSheetColumns)
		protected.GET("/containers", sheetHandler.ListContainers)

		protected.POST("/sync/users", syncHandler.SyncUsers)
		protected.POST("/sync/sheet", syncHandler.SyncSheet)
		protected.GET("/tasks", syncHandler.GetTasks)
	}

	// START SERVER
	log.Println("Server running on port:", cfg.Port)
	r.Run(":" + cfg.Port)
}

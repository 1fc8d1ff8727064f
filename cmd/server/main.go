package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/saeid-a/CoachOps/internal/config"
	"github.com/saeid-a/CoachOps/internal/database"
	"github.com/saeid-a/CoachOps/internal/logger"
	"github.com/saeid-a/CoachOps/internal/routes"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("info", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		log.Error("DB_URL is required")
		os.Exit(1)
	}
	if err := database.ConnectDB(context.Background(), cfg.DBUrl, log); err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB()

	// 3. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(app, cfg, database.DB, log); err != nil {
		log.Error("failed to register routes", "error", err)
		os.Exit(1)
	}

	// 4. Start Server
	log.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "smtp_notifications", cfg.SMTPEnabled())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server failed to start", "error", err)
		database.CloseDB()
		os.Exit(1)
	}
}

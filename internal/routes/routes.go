package routes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/CoachOps/internal/access"
	"github.com/saeid-a/CoachOps/internal/config"
	"github.com/saeid-a/CoachOps/internal/handlers"
	"github.com/saeid-a/CoachOps/internal/metrics"
	"github.com/saeid-a/CoachOps/internal/middleware"
	"github.com/saeid-a/CoachOps/internal/repository"
	"github.com/saeid-a/CoachOps/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, log *slog.Logger) error {
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	capacityRepo := repository.NewCapacityRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	violationRepo := repository.NewViolationRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)

	routeTable, err := access.DefaultRouteTable()
	if err != nil {
		return fmt.Errorf("build route table: %w", err)
	}
	accessModel := access.NewModel(routeTable, access.WithLogger(log), access.WithDebug(cfg.AppEnv == "development"))
	accessService := services.NewAccessService(accessModel, roleRepo, violationRepo, log)
	waitlistService := services.NewWaitlistService(waitlistRepo, log)

	var notifier services.Notifier = services.NewLogNotifier(log)
	if cfg.SMTPEnabled() {
		smtpNotifier := services.NewSMTPNotifier(services.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			AdminTo:  cfg.AdminNotifyEmail,
		}, log)
		go smtpNotifier.Run(context.Background())
		notifier = smtpNotifier
	}

	matchingService := services.NewMatchingService(coachRepo, capacityRepo, subscriptionRepo, serviceRepo, log, cfg.DebugMatching)
	capacityGuard := services.NewCapacityGuard(db)
	onboardingService := services.NewOnboardingService(matchingService, subscriptionRepo, capacityGuard, notifier, log)
	assignmentService := services.NewAssignmentService(matchingService, coachRepo, subscriptionRepo, capacityGuard, log)

	authHandler := handlers.NewAuthHandler(db, userRepo, roleRepo, waitlistService, cfg.JWTSecret, cfg.TokenTTL)
	accessHandler := handlers.NewAccessHandler(accessService)
	nutritionHandler := handlers.NewNutritionHandler()
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	matchingHandler := handlers.NewMatchingHandler(matchingService, assignmentService)
	violationHandler := handlers.NewViolationHandler(violationRepo)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	authProtected.Get("/access/check", accessHandler.Check)
	authProtected.Post("/nutrition/targets", nutritionHandler.Targets)

	client := authProtected.Group("/client", middleware.RoleGate(accessService, access.RoleClient))
	client.Post("/onboarding", onboardingHandler.Enroll)

	coach := authProtected.Group("/coach", middleware.RoleGate(accessService, access.RoleCoach))
	coach.Get("/clients", onboardingHandler.ListCoachClients)

	admin := authProtected.Group("/admin", middleware.RoleGate(accessService, access.RoleAdmin))
	admin.Post("/matching/auto", matchingHandler.AutoMatch)
	admin.Post("/matching/validate", matchingHandler.ValidateSelection)
	admin.Put("/subscriptions/:id/coach", matchingHandler.AssignCoach)
	admin.Get("/access-violations", violationHandler.ListViolations)

	return nil
}

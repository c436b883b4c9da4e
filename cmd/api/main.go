package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Timetrack-api/internal/application/approval"
	"github.com/jhoicas/Timetrack-api/internal/application/auth"
	apptimesheet "github.com/jhoicas/Timetrack-api/internal/application/timesheet"
	"github.com/jhoicas/Timetrack-api/internal/application/usecase"
	"github.com/jhoicas/Timetrack-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Timetrack-api/internal/interfaces/http"
	"github.com/jhoicas/Timetrack-api/pkg/config"
	"github.com/jhoicas/Timetrack-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	tsRepo := postgres.NewTimesheetRepository(pool)
	entryRepo := postgres.NewTimeEntryRepository(pool)
	approvalRepo := postgres.NewProjectApprovalRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	projectUC := usecase.NewProjectUseCase(projectRepo)
	timesheetUC := apptimesheet.NewTimesheetUseCase(
		txRunner, tsRepo, entryRepo, approvalRepo, projectRepo, userRepo,
		log.WithComponent("timesheet"),
	)
	approvalUC := approval.NewApprovalUseCase(
		txRunner, tsRepo, approvalRepo, projectRepo, userRepo,
		log.WithComponent("approval"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Timetrack API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProjectUC:   projectUC,
		TimesheetUC: timesheetUC,
		ApprovalUC:  approvalUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

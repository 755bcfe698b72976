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

	"github.com/jhoicas/gestinvlab-api/internal/application/auth"
	"github.com/jhoicas/gestinvlab-api/internal/application/inventory"
	"github.com/jhoicas/gestinvlab-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/gestinvlab-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gestinvlab-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestinvlab-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/gestinvlab-api/internal/interfaces/http"
	"github.com/jhoicas/gestinvlab-api/pkg/config"
	"github.com/jhoicas/gestinvlab-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Tx)

	movementUC := inventory.NewMovementUseCase(txRunner, itemRepo, batchRepo, serviceRepo, movementRepo, log.Component("engine"))
	batchUC := inventory.NewBatchUseCase(batchRepo, itemRepo)
	criticalUC := inventory.NewCriticalStockUseCase(itemRepo)
	auditUC := inventory.NewStockAuditUseCase(txRunner, itemRepo, log.Component("audit"))
	voucherUC := inventory.NewVoucherUseCase(movementUC, infrapdf.NewMovementVoucherGenerator("GestInvLab"))

	itemUC := usecase.NewItemUseCase(itemRepo)
	serviceUC := usecase.NewServiceUseCase(serviceRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	reportUC := usecase.NewReportUseCase(reportRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if err := userUC.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword, log.Zerolog()); err != nil {
		log.Fatal().Err(err).Msg("administrador inicial")
	}

	sched := scheduler.New(cfg.Audit, auditUC, log.Component("scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "GestInvLab API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:       authUC,
		Movements:  movementUC,
		Batches:    batchUC,
		Critical:   criticalUC,
		Vouchers:   voucherUC,
		Items:      itemUC,
		Services:   serviceUC,
		Users:      userUC,
		Reports:    reportUC,
		StockAudit: auditUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log.Component("http"),
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

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

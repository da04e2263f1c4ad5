package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/almacen-escolar-api/internal/application/allocation"
	"github.com/jhoicas/almacen-escolar-api/internal/application/auth"
	"github.com/jhoicas/almacen-escolar-api/internal/application/request"
	"github.com/jhoicas/almacen-escolar-api/internal/application/stock"
	"github.com/jhoicas/almacen-escolar-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-escolar-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-escolar-api/pkg/config"
	"github.com/jhoicas/almacen-escolar-api/pkg/logger"
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

	itemRepo := postgres.NewStockItemRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	reqRepo := postgres.NewRequestRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := stock.NewLedgerUseCase(txRunner, movRepo)
	itemUC := stock.NewItemUseCase(itemRepo)
	alertUC := stock.NewAlertUseCase(itemRepo)
	allocator := allocation.NewAllocator(itemRepo, ledgerUC)
	workflowUC := request.NewWorkflowUseCase(reqRepo, userRepo, allocator)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Almacén Escolar API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:            itemUC,
		LedgerUC:          ledgerUC,
		AlertUC:           alertUC,
		WorkflowUC:        workflowUC,
		AuthUC:            authUC,
		JWTSecret:         cfg.JWT.Secret,
		AlertExpiringDays: cfg.Alert.ExpiringWindowDays,
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

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

	"github.com/jhoicas/Manufactura-api/internal/application/conversion"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/ports"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/netsis"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Manufactura-api/internal/interfaces/http"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
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

	docRepo := postgres.NewDocumentRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	postMovementUC := inventory.NewPostMovementUseCase(txRunner)
	verifyStockUC := inventory.NewVerifyStockUseCase(materialRepo, batchRepo, movRepo)
	lowStockUC := inventory.NewLowStockUseCase(materialRepo)
	convertUC := conversion.NewConvertUseCase(txRunner)
	transitionUC := conversion.NewTransitionUseCase(txRunner, postMovementUC)
	documentUC := usecase.NewDocumentUseCase(docRepo, txRunner)
	materialUC := usecase.NewMaterialUseCase(materialRepo, batchRepo)

	// Puente ERP opcional: sin NETSIS_BASE_URL la API corre sola.
	var erpBridge ports.ErpBridge
	if cfg.Netsis.BaseURL != "" {
		erpBridge = netsis.NewClient(
			cfg.Netsis.BaseURL,
			cfg.Netsis.APIKey,
			time.Duration(cfg.Netsis.TimeoutSeconds)*time.Second,
		)
		log.Component("netsis").Info().Str("base_url", cfg.Netsis.BaseURL).Msg("puente ERP habilitado")
	}

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
		Title:    "Manufactura API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MaterialUC:   materialUC,
		DocumentUC:   documentUC,
		PostMovement: postMovementUC,
		VerifyStock:  verifyStockUC,
		LowStock:     lowStockUC,
		Convert:      convertUC,
		Transition:   transitionUC,
		MovementRepo: movRepo,
		Netsis:       erpBridge,
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

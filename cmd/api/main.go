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
	"github.com/jhoicas/inventario-obras/internal/application/auth"
	"github.com/jhoicas/inventario-obras/internal/application/inventory"
	appprojection "github.com/jhoicas/inventario-obras/internal/application/projection"
	"github.com/jhoicas/inventario-obras/internal/application/usecase"
	inframongo "github.com/jhoicas/inventario-obras/internal/infrastructure/mongo"
	infrasheets "github.com/jhoicas/inventario-obras/internal/infrastructure/sheets"
	httpRouter "github.com/jhoicas/inventario-obras/internal/interfaces/http"
	"github.com/jhoicas/inventario-obras/pkg/config"
	"github.com/jhoicas/inventario-obras/pkg/logger"
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
	db, closeDB, err := inframongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a MongoDB")
	}
	defer closeDB()

	itemRepo := inframongo.NewItemRepository(db)
	siteRepo := inframongo.NewSiteRepository(db)
	ledgerRepo := inframongo.NewLedgerRepository(db)
	userRepo := inframongo.NewUserRepository(db)

	// Proyección externa: hoja de cálculo real si está configurada, no-op si no.
	// La API funciona igual en ambos casos; la proyección nunca afecta resultados.
	var projectionSync inventory.ProjectionSync = appprojection.Disabled{}
	if cfg.Sheets.Enabled() {
		sheetClient, err := infrasheets.NewClient(ctx, cfg.Sheets)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de Google Sheets")
		}
		projectionSync = appprojection.NewSynchronizer(sheetClient, cfg.Inventory.ReserveSiteName, log)
		log.Info().Str("spreadsheet", cfg.Sheets.SpreadsheetID).Msg("proyección a hoja de cálculo activada")
	} else {
		log.Info().Msg("proyección a hoja de cálculo desactivada")
	}

	recorder := inventory.NewRecorder(ledgerRepo, siteRepo, userRepo, itemRepo,
		projectionSync, cfg.Inventory.ReserveSiteName, log)

	itemUC := inventory.NewItemUseCase(itemRepo, siteRepo, recorder)
	transferUC := inventory.NewTransferUseCase(itemRepo, siteRepo, recorder, log)
	siteUC := usecase.NewSiteUseCase(siteRepo, recorder)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, userRepo, siteRepo)
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
		Title:    "Inventario Obras API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:      itemUC,
		TransferUC:  transferUC,
		SiteUC:      siteUC,
		LedgerUC:    ledgerUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		ReserveSite: cfg.Inventory.ReserveSiteName,
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

	// El trabajo de auditoría y proyección en vuelo termina antes de salir.
	recorder.Wait()

	log.Info().Msg("aplicación detenida")
}

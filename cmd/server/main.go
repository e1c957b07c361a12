package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/relaychess-backend/internal/config"
	"github.com/benbeisheim/relaychess-backend/internal/controller"
	"github.com/benbeisheim/relaychess-backend/internal/service"
	"github.com/benbeisheim/relaychess-backend/internal/storage"
	"github.com/benbeisheim/relaychess-backend/internal/storage/memory"
	"github.com/benbeisheim/relaychess-backend/internal/storage/sqlite"
	"github.com/benbeisheim/relaychess-backend/internal/telemetry"
	"github.com/benbeisheim/relaychess-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "relaychess", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Initialize services
	gameManager := service.NewGameManager(store)
	userService := service.NewUserService(store, store)
	gameService := service.NewGameService(gameManager)
	clearService := service.NewClearService(store)
	coordinator := service.NewCoordinator(userService, gameManager, ws.NewRegistry())

	// Initialize controllers
	userController := controller.NewUserController(userService)
	gameController := controller.NewGameController(gameService, clearService)
	wsController := controller.NewWebSocketController(coordinator)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Origins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	controller.Routes{
		Users:     userController,
		Games:     gameController,
		WebSocket: wsController,
		Auth:      userService,
		Origins:   cfg.AllowOrigins,
	}.Mount(app)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("listening on %s", cfg.Addr)
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Printf("shutting down")
		return app.ShutdownWithContext(shutdownCtx)
	})
	return g.Wait()
}

func openStore(cfg config.Config) (storage.Store, error) {
	if cfg.InMemory() {
		log.Printf("using in-memory store")
		return memory.New(), nil
	}
	log.Printf("using sqlite store at %s", cfg.DBPath)
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return store, nil
}

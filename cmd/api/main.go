package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-estoque-condo/internal/config"
	"go-estoque-condo/internal/handler"
	"go-estoque-condo/internal/service"
	"go-estoque-condo/internal/store"
	"go-estoque-condo/internal/ws"
	"go-estoque-condo/pkg/jwt"
	"go-estoque-condo/pkg/logger"
	"go-estoque-condo/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	provider, err := store.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Database.Provider, err)
	}
	defer provider.Close()

	if err := provider.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// 3. Seed default privileges, roles, and admin user
	hasher := password.NewBcrypt(cfg.Security.BcryptCost)
	seed := service.SeedOptions{
		AdminUsername: cfg.Auth.AdminUsername,
		AdminEmail:    cfg.Auth.AdminEmail,
		AdminPassword: cfg.Auth.AdminPassword,
	}
	if err := service.Seed(ctx, provider, hasher, seed, zl); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	// 4. Setup WebSocket Hub
	hub := ws.NewHub(zl.Named("ws"))
	go hub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpireHours)*time.Hour)
	authService := service.NewAuthService(provider, hasher, tokens, service.AuthOptions{
		AllowSignup:         cfg.Auth.AllowSignup,
		SignupRole:          cfg.Auth.SignupRole,
		BootstrapEnabled:    cfg.Auth.BootstrapEnabled,
		BootstrapIdentifier: cfg.Auth.BootstrapEmail,
		BootstrapPassword:   cfg.Auth.BootstrapPassword,
	}, zl.Named("auth"))
	if cfg.Auth.BootstrapEnabled {
		zl.Warn("bootstrap login is enabled; disable it once an administrator password is set")
	}

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Inventory: handler.NewInventoryHandler(service.NewInventoryService(provider, hub, zl.Named("inventory"))),
		Users:     handler.NewUserHandler(service.NewUserService(provider, hasher, hub)),
		Roles:     handler.NewRoleHandler(provider.Roles(), provider.Privileges()),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(provider, cfg.Inventory.LowStockThreshold)),
		Finance:   handler.NewFinanceHandler(service.NewFinanceService(provider, cfg.Condo.Roster(), hub)),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ErrorHandler: handler.ErrorHandler(zl),
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.AllowedOrigins}))

	// 7. Routes
	handler.SetupRoutes(app, handlers, authService, hub)

	// 8. Graceful Shutdown
	listenErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		zl.Info("server listening",
			zap.String("addr", addr),
			zap.String("store", string(provider.Kind())))
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	authService.Wait()

	zl.Info("server exited")
	return nil
}

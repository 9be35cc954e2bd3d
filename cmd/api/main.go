package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"printshop-orders/internal/handler"
	"printshop-orders/internal/middleware"
	"printshop-orders/internal/repository"
	"printshop-orders/internal/service"
	"printshop-orders/internal/ws"
	"printshop-orders/pkg/config"
	"printshop-orders/pkg/database"
	"printshop-orders/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

func main() {
	// 1. Load env
	envErr := config.LoadEnvFile()
	cfg := config.Load()

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logCfg.Format = cfg.LogFormat
	logCfg.Environment = cfg.Environment
	logCfg.Component = "api"
	log := logger.New(logCfg)
	defer log.Close()

	if envErr != nil {
		log.Warn(".env file not found, relying on system env")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// 2. Database
	db, err := database.Connect(cfg.Database, database.GormLogLevel(cfg.LogLevel))
	if err != nil {
		log.Fatal("Database connection failed", "error", err)
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Migration failed", "error", err)
		}
	}

	// 3. WebSocket hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 4. Wiring
	uow := repository.NewUnitOfWork(db)
	userRepo := repository.NewUserRepo(db)

	orderService := service.NewOrderService(uow, wsHub, log)
	fulfillmentService := service.NewFulfillmentService(uow, wsHub, log)
	pricingService := service.NewPricingService(uow, log)

	handlers := handler.Handlers{
		Orders:      handler.NewOrderHandler(orderService),
		Fulfillment: handler.NewFulfillmentHandler(fulfillmentService),
		Pricing:     handler.NewPricingHandler(pricingService),
	}

	// 5. Fiber
	app := fiber.New(fiber.Config{
		AppName: "Printshop Orders v1.0",
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	secret := []byte(cfg.JWTSecret)
	handler.RegisterRoutes(app.Group("/api/v1"), middleware.RequireAuth(secret, userRepo), handlers)

	// ?branch_id=<uuid> narrows the stream to one branch
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		branchID, _ := uuid.Parse(c.Query("branch_id"))
		if !wsHub.Subscribe(ws.Subscription{Conn: c, BranchID: branchID}) {
			return
		}
		defer wsHub.Leave(c)

		for {
			// keep alive until the client goes away
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 6. Graceful shutdown
	go func() {
		log.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server exited")
}

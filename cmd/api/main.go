package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-diamond-ledger/internal/handler"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/internal/service"
	"go-diamond-ledger/internal/ws"
	"go-diamond-ledger/pkg/config"
	"go-diamond-ledger/pkg/database"
	"go-diamond-ledger/pkg/jwt"
	"go-diamond-ledger/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load config
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)
	log := logger.Get()

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL)
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	refs := service.LotRefs{
		Parties:         repository.NewRegistryRepo[model.Party](db),
		Shapes:          repository.NewRegistryRepo[model.Shape](db),
		Colors:          repository.NewRegistryRepo[model.Color](db),
		Clarities:       repository.NewRegistryRepo[model.Clarity](db),
		Statuses:        repository.NewRegistryRepo[model.Status](db),
		PaymentStatuses: repository.NewRegistryRepo[model.PaymentStatus](db),
	}
	employeeRepo := repository.NewRegistryRepo[model.Employee](db)
	lotRepo := repository.NewLotRepo(db)
	attendanceRepo := repository.NewAttendanceRepo(db)

	authService := service.NewAuthService(repository.NewUserRepo(db), jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL))
	rateService := service.NewRateService(repository.NewRateRepo(db), refs.Parties, wsHub)
	lotService := service.NewLotService(lotRepo, refs, rateService, wsHub)
	txService := service.NewTransactionService(repository.NewTransactionRepo(db), lotRepo, refs.Parties, wsHub)
	attendanceService := service.NewAttendanceService(attendanceRepo, employeeRepo, wsHub)

	seedAdmin(authService, cfg)

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.JWTTTL, cfg.CookieSecure),
		Lot:         handler.NewLotHandler(lotService, cfg.Location),
		Rate:        handler.NewRateHandler(rateService),
		Transaction: handler.NewTransactionHandler(txService),
		Attendance:  handler.NewAttendanceHandler(attendanceService),

		Party:         handler.NewPartyHandler(service.NewPartyService(refs.Parties, lotRepo, wsHub)),
		Shape:         handler.NewRegistryHandler(service.NewRegistryService[model.Shape](refs.Shapes, "Shape", wsHub)),
		Color:         handler.NewRegistryHandler(service.NewRegistryService[model.Color](refs.Colors, "Color", wsHub)),
		Clarity:       handler.NewRegistryHandler(service.NewRegistryService[model.Clarity](refs.Clarities, "Clarity", wsHub)),
		Status:        handler.NewRegistryHandler(service.NewRegistryService[model.Status](refs.Statuses, "Status", wsHub)),
		PaymentStatus: handler.NewRegistryHandler(service.NewRegistryService[model.PaymentStatus](refs.PaymentStatuses, "Payment status", wsHub)),
		Employee:      handler.NewRegistryHandler(service.NewEmployeeService(employeeRepo, attendanceRepo, wsHub)),
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Diamond Ledger v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	// 6. Routes
	handler.SetupRoutes(app, handlers, authService, wsHub)

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exited")
}

// seedAdmin creates the configured Super Admin on first start.
func seedAdmin(auth service.AuthService, cfg config.Config) {
	log := logger.Get()
	if cfg.AdminUserName == "" || cfg.AdminPassword == "" {
		return
	}
	created, err := auth.EnsureUser(context.Background(), cfg.AdminUserName, cfg.AdminPassword, model.RoleSuperAdmin)
	if err != nil {
		log.Warnf("Failed to seed admin user: %v", err)
		return
	}
	if created {
		log.Infof("Admin user created: %s", cfg.AdminUserName)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medilink/hms-api/internal/application/service"
	"github.com/medilink/hms-api/internal/config"
	"github.com/medilink/hms-api/internal/domain/entity"
	"github.com/medilink/hms-api/internal/infrastructure/cache"
	"github.com/medilink/hms-api/internal/infrastructure/database"
	"github.com/medilink/hms-api/internal/infrastructure/repository"
	"github.com/medilink/hms-api/internal/presentation/http/handler"
	"github.com/medilink/hms-api/internal/presentation/http/routes"
	"github.com/medilink/hms-api/internal/sync"
	"github.com/medilink/hms-api/internal/sync/tally"
	"github.com/medilink/hms-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewPatientLedgerRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	agingRepo := repository.NewAgingSnapshotRepository(db)
	syncConfigRepo := repository.NewSyncConfigRepository(db)
	syncRunRepo := repository.NewSyncRunRepository(db)
	txManager := repository.NewTxManager(db)

	// Chart of accounts cache, invalidated on every account mutation and
	// after each sync import
	chartCache := cache.NewChartCache(accountRepo, cfg.Ledger.ChartCacheTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	patientService := service.NewPatientService(patientRepo)
	accountService := service.NewAccountService(accountRepo, chartCache)
	ledgerService := service.NewPatientLedgerService(ledgerRepo, patientRepo, accountRepo, voucherRepo, txManager)
	voucherService := service.NewVoucherService(voucherRepo, accountRepo, patientRepo, ledgerService, txManager)
	agingService := service.NewAgingService(invoiceRepo, patientRepo, agingRepo, txManager)
	paymentService := service.NewPaymentService(
		paymentRepo,
		allocationRepo,
		invoiceRepo,
		patientRepo,
		accountRepo,
		voucherService,
		ledgerService,
		txManager,
		service.SettlementAccounts{
			CashCode:       cfg.Ledger.CashAccountCode,
			BankCode:       cfg.Ledger.BankAccountCode,
			ReceivableCode: cfg.Ledger.ReceivableAccountCode,
		},
	)

	// External bookkeeping sync engine
	importer := sync.NewImporter(accountService, voucherService, accountRepo, voucherRepo)
	exporter := sync.NewExporter(accountRepo, voucherRepo)
	transport := func(syncCfg *entity.ExternalSyncConfig) sync.Transport {
		return tally.NewClient(syncCfg.Host, syncCfg.Port, cfg.Sync.RequestTimeout)
	}
	engine := sync.NewEngine(syncConfigRepo, syncRunRepo, importer, exporter, transport, chartCache, log.Default())

	scheduler := sync.NewScheduler(engine, syncConfigRepo, log.Default())
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Sync.PushEnabled {
		pushListener := sync.NewPushListener(engine, syncConfigRepo, chartCache, log.Default())
		pushListener.Start()
		defer pushListener.Stop()
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Account: handler.NewAccountHandler(accountService, voucherService),
		Patient: handler.NewPatientHandler(patientService, ledgerService),
		Ledger:  handler.NewLedgerHandler(ledgerService),
		Voucher: handler.NewVoucherHandler(voucherService),
		Invoice: handler.NewInvoiceHandler(agingService),
		Payment: handler.NewPaymentHandler(paymentService),
		Sync:    handler.NewSyncHandler(engine, exporter, syncConfigRepo),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for an interrupt, then drain in-flight requests before the
	// deferred scheduler/listener shutdowns run
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	log.Println("Server stopped")
}

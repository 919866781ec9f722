package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medilink/hms-api/internal/config"
	"github.com/medilink/hms-api/internal/presentation/http/handler"
	"github.com/medilink/hms-api/internal/presentation/http/middleware"
	"github.com/medilink/hms-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Account *handler.AccountHandler
	Patient *handler.PatientHandler
	Ledger  *handler.LedgerHandler
	Voucher *handler.VoucherHandler
	Invoice *handler.InvoiceHandler
	Payment *handler.PaymentHandler
	Sync    *handler.SyncHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Auth/Profile routes
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)

	// Chart of accounts
	registerAccountRoutes(protected, h)

	// Patients
	registerPatientRoutes(protected, h)

	// Patient ledgers
	registerLedgerRoutes(protected, h)

	// Vouchers
	registerVoucherRoutes(protected, h)

	// Invoices and receivables aging
	registerInvoiceRoutes(protected, h)

	// Payments
	registerPaymentRoutes(protected, h)

	// External bookkeeping sync (Admin)
	registerSyncRoutes(protected, h)
}

func registerAccountRoutes(protected *gin.RouterGroup, h *Handlers) {
	accounts := protected.Group("/accounts")
	{
		accounts.GET("", h.Account.List)
		accounts.POST("", h.Account.Create)
		accounts.GET("/:id", h.Account.Get)
		accounts.PUT("/:id", h.Account.Update)
		accounts.GET("/:id/balance", h.Account.Balance)
		accounts.POST("/:id/activate", h.Account.Activate)
		accounts.POST("/:id/deactivate", h.Account.Deactivate)
	}
}

func registerPatientRoutes(protected *gin.RouterGroup, h *Handlers) {
	patients := protected.Group("/patients")
	{
		patients.GET("", h.Patient.List)
		patients.POST("", h.Patient.Create)
		patients.GET("/:id", h.Patient.Get)
		patients.PUT("/:id", h.Patient.Update)
		patients.GET("/:id/ledgers", h.Patient.Ledgers)
	}
}

func registerLedgerRoutes(protected *gin.RouterGroup, h *Handlers) {
	ledgers := protected.Group("/ledgers")
	{
		ledgers.POST("", h.Ledger.Create)
		ledgers.GET("/:id", h.Ledger.Get)
		ledgers.POST("/:id/rebuild", h.Ledger.Rebuild)
	}
}

func registerVoucherRoutes(protected *gin.RouterGroup, h *Handlers) {
	vouchers := protected.Group("/vouchers")
	{
		vouchers.GET("", h.Voucher.List)
		vouchers.POST("", h.Voucher.Create)
		vouchers.GET("/:id", h.Voucher.Get)
		vouchers.POST("/:id/post", h.Voucher.Post)
		vouchers.POST("/:id/cancel", h.Voucher.Cancel)
		vouchers.POST("/:id/reverse", h.Voucher.Reverse)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
	}

	aging := protected.Group("/aging")
	{
		aging.GET("/invoices", h.Invoice.Aged)
		aging.GET("/snapshots", h.Invoice.Snapshots)
		aging.POST("/snapshots", h.Invoice.Snapshot)
		aging.GET("/snapshots/:id", h.Invoice.SnapshotRun)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers) {
	payments := protected.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.POST("", h.Payment.Create)
		payments.GET("/:id", h.Payment.Get)
		payments.GET("/:id/allocations", h.Payment.Allocations)
		payments.POST("/:id/allocations", h.Payment.Allocate)
		payments.POST("/:id/clear", h.Payment.Clear)
		payments.POST("/:id/bounce", h.Payment.Bounce)
	}
}

func registerSyncRoutes(protected *gin.RouterGroup, h *Handlers) {
	syncGroup := protected.Group("/sync")
	{
		// Run history is readable by any authenticated user
		syncGroup.GET("/runs", h.Sync.Runs)
		syncGroup.GET("/runs/:id", h.Sync.Run)

		admin := syncGroup.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.GET("/config", h.Sync.GetConfig)
			admin.PUT("/config", h.Sync.UpdateConfig)
			admin.POST("/runs", h.Sync.Trigger)
			admin.GET("/export", h.Sync.DownloadExport)
		}
	}
}

// Package v1 wires the HTTP API: middleware chain, route registration
// and the repo/service/handler graph per entity.
package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"leafbook/internal/domain/auth"
	"leafbook/internal/domain/catalogs/farmer"
	"leafbook/internal/domain/documents/jardi"
	"leafbook/internal/domain/documents/lot"
	"leafbook/internal/domain/documents/process"
	"leafbook/internal/domain/documents/purchase"
	"leafbook/internal/domain/ewaybill"
	"leafbook/internal/domain/payments"
	"leafbook/internal/domain/reports"
	"leafbook/internal/infrastructure/http/v1/handlers"
	"leafbook/internal/infrastructure/http/v1/middleware"
	"leafbook/internal/infrastructure/storage/postgres"
	"leafbook/internal/infrastructure/storage/postgres/catalog_repo"
	"leafbook/internal/infrastructure/storage/postgres/document_repo"
	"leafbook/internal/infrastructure/storage/postgres/eway_repo"
	"leafbook/internal/infrastructure/storage/postgres/ledger_repo"
	"leafbook/internal/infrastructure/storage/postgres/report_repo"
	"leafbook/pkg/logger"
	"leafbook/pkg/numerator"
)

// RouterConfig holds everything the route graph needs.
type RouterConfig struct {
	Logger     *logger.Logger
	Pool       *postgres.Pool
	TxManager  *postgres.TxManager
	AuthSvc    *auth.Service
	EwayClient ewaybill.Client
}

// NewRouter builds the gin engine with the full middleware chain and all
// API routes.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	health := handlers.NewHealthHandler(cfg.Pool)
	router.GET("/health", health.Live)
	router.GET("/health/ready", health.Ready)

	api := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(cfg.AuthSvc)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.AuthSvc))

	protected.POST("/auth/register", authHandler.Register)
	protected.GET("/auth/me", authHandler.Me)

	num := numerator.New(cfg.TxManager)

	ewayRepo, err := eway_repo.NewEwayRepo(cfg.TxManager)
	if err != nil {
		return nil, fmt.Errorf("create eway repo: %w", err)
	}

	// Repos shared across services
	purchaseRepo := document_repo.NewPurchaseRepo(cfg.TxManager)
	lotRepo := document_repo.NewLotRepo(cfg.TxManager)
	processRepo := document_repo.NewProcessRepo(cfg.TxManager)

	registerFarmerRoutes(protected, catalog_repo.NewFarmerRepo(cfg.TxManager), num)
	paymentSvc := registerPurchaseRoutes(protected, purchaseRepo, cfg.TxManager)
	registerLotRoutes(protected, lotRepo, purchaseRepo, ewayRepo, num, cfg)
	registerProcessRoutes(protected, processRepo, lotRepo, num, cfg)
	registerPaymentRoutes(protected, paymentSvc)
	registerReportRoutes(protected, cfg.TxManager)

	return router, nil
}

func registerFarmerRoutes(rg *gin.RouterGroup, repo farmer.Repository, num *numerator.Service) {
	h := handlers.NewFarmerHandler(farmer.NewService(repo, num))

	rg.POST("/farmers", h.Create)
	rg.GET("/farmers", h.List)
	rg.GET("/farmers/:id", h.Get)
	rg.PUT("/farmers/:id", h.Update)
	rg.DELETE("/farmers/:id", h.Deactivate)
	rg.POST("/farmers/:id/efficacy", h.AssessEfficacy)
	rg.POST("/farmers/:id/reactivate", h.Reactivate)
}

// registerPurchaseRoutes also builds the payment service because the
// purchase ledger endpoint lives under /purchases.
func registerPurchaseRoutes(rg *gin.RouterGroup, repo purchase.Repository, txm *postgres.TxManager) *payments.Service {
	h := handlers.NewPurchaseHandler(purchase.NewService(repo, txm))

	rg.POST("/purchases", h.Create)
	rg.GET("/purchases", h.List)
	rg.GET("/purchases/:id", h.Get)
	rg.PUT("/purchases/:id", h.Update)
	rg.DELETE("/purchases/:id", h.Delete)
	rg.GET("/purchases/:id/available-weight", h.AvailableWeight)

	paymentSvc := payments.NewService(ledger_repo.NewPaymentRepo(txm), repo)
	paymentHandler := handlers.NewPaymentHandler(paymentSvc)
	rg.GET("/purchases/:id/ledger", paymentHandler.Ledger)

	return paymentSvc
}

func registerLotRoutes(rg *gin.RouterGroup, lotRepo lot.Repository, purchaseRepo purchase.Repository, ewayRepo ewaybill.Repository, num *numerator.Service, cfg RouterConfig) {
	h := handlers.NewLotHandler(lot.NewService(lotRepo, purchaseRepo, num, cfg.TxManager))

	rg.POST("/lots", h.Create)
	rg.GET("/lots", h.List)
	rg.GET("/lots/:id", h.Get)
	rg.PUT("/lots/:id", h.Update)
	rg.DELETE("/lots/:id", h.Delete)
	rg.GET("/lots/:id/composition", h.Composition)
	rg.POST("/lots/:id/allocations", h.Allocate)
	rg.PUT("/allocations/:id", h.UpdateAllocation)
	rg.DELETE("/allocations/:id", h.Deallocate)

	ewayHandler := handlers.NewEwayBillHandler(
		ewaybill.NewService(ewayRepo, lotRepo, cfg.EwayClient))
	rg.POST("/lots/:id/eway-bills", ewayHandler.Generate)
	rg.GET("/lots/:id/eway-bills", ewayHandler.ListByLot)
	rg.GET("/eway-bills/:id", ewayHandler.Get)
}

func registerProcessRoutes(rg *gin.RouterGroup, processRepo process.Repository, lotRepo lot.Repository, num *numerator.Service, cfg RouterConfig) {
	h := handlers.NewProcessHandler(process.NewService(processRepo, lotRepo, num, cfg.TxManager))

	rg.POST("/processes", h.Start)
	rg.GET("/processes", h.List)
	rg.GET("/processes/:id", h.Get)
	rg.POST("/processes/:id/transition", h.Transition)
	rg.PUT("/processes/:id/wastage", h.UpdateWastage)
	rg.GET("/processes/:id/history", h.History)
	rg.GET("/process-statuses", h.ListStatuses)

	jardiHandler := handlers.NewJardiHandler(
		jardi.NewService(document_repo.NewJardiRepo(cfg.TxManager), processRepo, cfg.TxManager))
	rg.POST("/jardi-outputs", jardiHandler.Record)
	rg.GET("/jardi-outputs", jardiHandler.List)
	rg.GET("/jardi-outputs/:id", jardiHandler.Get)
	rg.PUT("/jardi-outputs/:id", jardiHandler.Update)
	rg.GET("/processes/:id/output", jardiHandler.GetByProcess)
	rg.GET("/processes/:id/yield", jardiHandler.Yield)
}

func registerPaymentRoutes(rg *gin.RouterGroup, svc *payments.Service) {
	h := handlers.NewPaymentHandler(svc)

	rg.POST("/payments", h.Record)
	rg.GET("/payments", h.List)
	rg.GET("/payments/:id", h.Get)
	rg.PUT("/payments/:id", h.Update)
	rg.DELETE("/payments/:id", h.Delete)
}

func registerReportRoutes(rg *gin.RouterGroup, txm *postgres.TxManager) {
	h := handlers.NewReportHandler(reports.NewService(report_repo.NewReportRepo(txm)))

	rg.GET("/reports/dashboard", h.Dashboard)
	rg.GET("/reports/purchases", h.Purchases)
	rg.GET("/reports/farmer-balances", h.FarmerBalances)
	rg.GET("/reports/process-yields", h.ProcessYields)
}

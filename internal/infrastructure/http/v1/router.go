package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	appctx "clinova/internal/core/context"
	"clinova/internal/core/id"
	"clinova/internal/domain"
	"clinova/internal/domain/activity"
	"clinova/internal/domain/auth"
	"clinova/internal/domain/catalogs/doctemplate"
	"clinova/internal/domain/catalogs/employee"
	"clinova/internal/domain/catalogs/patient"
	"clinova/internal/domain/catalogs/product"
	"clinova/internal/domain/catalogs/soin"
	"clinova/internal/domain/documents/facture"
	"clinova/internal/domain/documents/rendezvous"
	"clinova/internal/domain/registers/stock"
	"clinova/internal/domain/reports"
	"clinova/internal/domain/settings"
	"clinova/internal/domain/workflow"
	"clinova/internal/infrastructure/http/v1/handlers"
	"clinova/internal/infrastructure/http/v1/middleware"
	"clinova/internal/infrastructure/storage/postgres"
	"clinova/internal/infrastructure/storage/postgres/catalog_repo"
	"clinova/internal/infrastructure/storage/postgres/document_repo"
	"clinova/internal/infrastructure/storage/postgres/register_repo"
	"clinova/internal/infrastructure/storage/postgres/report_repo"
	"clinova/internal/infrastructure/storage/postgres/settings_repo"
	"clinova/pkg/logger"
	"clinova/pkg/numerator"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager manages database transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator *numerator.Service

	// Renderer compiles and evaluates document templates
	Renderer *doctemplate.Renderer

	// Audit records entity changes to the durable audit trail (optional)
	Audit *postgres.AuditService

	// Feed keeps the in-memory recent-actions feed (optional)
	Feed *activity.Feed

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		// Apply idempotency middleware for mutating operations
		if cfg.IdempotencyEnabled {
			store := postgres.NewIdempotencyStore(cfg.TxManager, 10*time.Minute)
			protected.Use(middleware.Idempotency(store))
		}

		svcs := buildServices(cfg)

		registerCatalogRoutes(protected, svcs)
		registerDocumentRoutes(protected, svcs)
		registerRegisterRoutes(protected, svcs)
		registerReportRoutes(protected, svcs)
		registerWorkflowRoutes(protected, svcs)
		registerActivityRoutes(protected, cfg)
		registerSettingsRoutes(protected, svcs)
	}

	return router
}

// services holds the domain services shared across route groups.
// Repos and services are created once; transactions are resolved per-request
// through the TxManager.
type services struct {
	patients   *patient.Service
	products   *product.Service
	soins      *soin.Service
	employees  *employee.Service
	templates  *doctemplate.Service
	stock      *stock.Service
	factures   *facture.Service
	rendezvous *rendezvous.Service
	workflow   *workflow.Service
	reports    *reports.Service
	settings   *settings.Service
}

func buildServices(cfg RouterConfig) *services {
	patientRepo := catalog_repo.NewPatientRepo(cfg.TxManager)
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	soinRepo := catalog_repo.NewSoinRepo(cfg.TxManager)
	employeeRepo := catalog_repo.NewEmployeeRepo(cfg.TxManager)
	templateRepo := catalog_repo.NewTemplateRepo(cfg.TxManager)
	factureRepo := document_repo.NewFactureRepo(cfg.TxManager)
	rdvRepo := document_repo.NewRendezVousRepo(cfg.TxManager)
	stockRepo := register_repo.NewStockRepo(cfg.TxManager)
	settingsRepo := settings_repo.NewSettingsRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	svcs := &services{}
	svcs.patients = patient.NewService(patientRepo, cfg.TxManager, cfg.Numerator)
	svcs.products = product.NewService(productRepo, cfg.TxManager, cfg.Numerator)
	svcs.soins = soin.NewService(soinRepo, cfg.TxManager, cfg.Numerator)
	svcs.employees = employee.NewService(employeeRepo, cfg.TxManager, cfg.Numerator)
	svcs.templates = doctemplate.NewService(templateRepo, cfg.TxManager, cfg.Numerator, cfg.Renderer)
	svcs.stock = stock.NewService(stockRepo, productRepo)

	var changeLog facture.ChangeLogger
	if cfg.Audit != nil || cfg.Feed != nil {
		changeLog = &changeRecorder{audit: cfg.Audit, feed: cfg.Feed}
	}
	svcs.factures = facture.NewService(factureRepo, svcs.stock, cfg.Numerator, cfg.TxManager, changeLog)
	svcs.rendezvous = rendezvous.NewService(rdvRepo, cfg.Numerator, cfg.TxManager)
	svcs.workflow = workflow.NewService(patientRepo, svcs.rendezvous, svcs.factures)
	svcs.reports = reports.NewService(reportRepo)
	svcs.settings = settings.NewService(settingsRepo, cfg.TxManager)

	if cfg.Feed != nil {
		attachFeedHooks(cfg.Feed, svcs.patients.Hooks(), "patient", func(p *patient.Patient) string { return p.FullName() })
		attachFeedHooks(cfg.Feed, svcs.products.Hooks(), "product", func(p *product.Product) string { return p.Name })
		attachFeedHooks(cfg.Feed, svcs.soins.Hooks(), "soin", func(s *soin.Soin) string { return s.Name })
		attachFeedHooks(cfg.Feed, svcs.employees.Hooks(), "employee", func(e *employee.Employee) string { return e.FullName() })
		attachFeedHooks(cfg.Feed, svcs.templates.Hooks(), "doctemplate", func(t *doctemplate.Template) string { return t.Name })
	}

	return svcs
}

// attachFeedHooks records catalog lifecycle events in the activity feed.
func attachFeedHooks[T any](feed *activity.Feed, hooks *domain.HookRegistry[T], entityName string, label func(T) string) {
	record := func(action string) domain.Hook[T] {
		return func(ctx context.Context, ent T) error {
			feed.Record(actorFrom(ctx), action, entityName, label(ent))
			return nil
		}
	}
	hooks.On(domain.AfterCreate, record("create"))
	hooks.On(domain.AfterUpdate, record("update"))
	hooks.On(domain.AfterDelete, record("delete"))
}

func actorFrom(ctx context.Context) string {
	if user := appctx.GetUser(ctx); user != nil {
		if user.Email != "" {
			return user.Email
		}
		if user.CIN != "" {
			return user.CIN
		}
	}
	return "system"
}

// changeRecorder fans invoice change events out to the audit trail and
// the activity feed.
type changeRecorder struct {
	audit *postgres.AuditService
	feed  *activity.Feed
}

func (r *changeRecorder) LogEntityChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error {
	if r.feed != nil {
		r.feed.Record(actorFrom(ctx), action, entityType, entityID.String())
	}
	if r.audit != nil {
		return r.audit.LogEntityChange(ctx, entityType, entityID, action, changes)
	}
	return nil
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, svcs *services) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- PATIENTS ---
	{
		handler := handlers.NewPatientHandler(baseHandler, svcs.patients)
		group := catalogs.Group("/patients")
		RegisterCatalogRoutes(group, handler, "catalog:patient")
		group.GET("/by-cin/:cin", middleware.RequirePermission("catalog:patient:read"), handler.GetByCIN)
	}

	// --- PRODUCTS ---
	{
		handler := handlers.NewProductHandler(baseHandler, svcs.products)
		group := catalogs.Group("/products")
		RegisterCatalogRoutes(group, handler, "catalog:product")
		group.GET("/low-stock", middleware.RequirePermission("catalog:product:read"), handler.LowStock)
	}

	// --- SOINS ---
	{
		handler := handlers.NewSoinHandler(baseHandler, svcs.soins)
		group := catalogs.Group("/soins")
		RegisterCatalogRoutes(group, handler, "catalog:soin")
		group.GET("/by-therapeute/:employeeId", middleware.RequirePermission("catalog:soin:read"), handler.ByTherapeute)
	}

	// --- EMPLOYEES ---
	{
		handler := handlers.NewEmployeeHandler(baseHandler, svcs.employees)
		group := catalogs.Group("/employees")
		RegisterCatalogRoutes(group, handler, "catalog:employee")
		group.GET("/by-role/:role", middleware.RequirePermission("catalog:employee:read"), handler.ByRole)
	}

	// --- DOCUMENT TEMPLATES ---
	{
		handler := handlers.NewTemplateHandler(baseHandler, svcs.templates, svcs.patients, svcs.factures, svcs.settings)
		group := catalogs.Group("/doc-templates")
		RegisterCatalogRoutes(group, handler, "catalog:doctemplate")
		group.POST("/:id/render", middleware.RequirePermission("catalog:doctemplate:render"), handler.Render)
		group.GET("/rendered/:cin", middleware.RequirePermission("catalog:doctemplate:read"), handler.ListRendered)
	}
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, svcs *services) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	// --- FACTURES ---
	{
		handler := handlers.NewFactureHandler(baseHandler, svcs.factures)
		RegisterDocumentRoutes(docsGroup.Group("/factures"), handler, "document:facture")
	}

	// --- RENDEZ-VOUS ---
	{
		handler := handlers.NewRendezVousHandler(baseHandler, svcs.rendezvous)
		group := docsGroup.Group("/rendez-vous")
		RegisterDocumentRoutes(group, handler, "document:rendezvous")
		group.GET("/slots", middleware.RequirePermission("document:rendezvous:read"), handler.AvailableSlots)
	}
}

// registerRegisterRoutes registers accumulation register endpoints.
func registerRegisterRoutes(rg *gin.RouterGroup, svcs *services) {
	registers := rg.Group("/registers")
	baseHandler := handlers.NewBaseHandler()

	// Stock register
	{
		handler := handlers.NewStockHandler(baseHandler, svcs.stock)
		group := registers.Group("/stock")
		group.GET("/balances", middleware.RequirePermission("register:stock:read"), handler.GetBalances)
		group.GET("/movements/:productId", middleware.RequirePermission("register:stock:read"), handler.GetMovements)
		group.GET("/turnover", middleware.RequirePermission("register:stock:read"), handler.GetTurnover)
		group.POST("/recalculate", middleware.RequirePermission("register:stock:recalculate"), handler.Recalculate)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, svcs *services) {
	reportsGroup := rg.Group("/reports")
	baseHandler := handlers.NewBaseHandler()

	reportHandler := handlers.NewReportsHandler(baseHandler, svcs.reports)

	reportsGroup.GET("/stock-balance", middleware.RequirePermission("report:stock:read"), reportHandler.GetStockBalance)
	reportsGroup.GET("/revenue", middleware.RequirePermission("report:revenue:read"), reportHandler.GetRevenue)
	reportsGroup.GET("/document-journal", middleware.RequirePermission("report:documents:read"), reportHandler.GetDocumentJournal)
}

// registerWorkflowRoutes registers the patient dashboard endpoints.
func registerWorkflowRoutes(rg *gin.RouterGroup, svcs *services) {
	handler := handlers.NewWorkflowHandler(handlers.NewBaseHandler(), svcs.workflow)

	wf := rg.Group("/workflow")
	wf.GET("", middleware.RequirePermission("workflow:read"), handler.List)
	wf.GET("/:cin", middleware.RequirePermission("workflow:read"), handler.GetByCIN)
}

// registerActivityRoutes registers the recent-actions feed endpoint.
func registerActivityRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Feed == nil {
		return
	}

	handler := handlers.NewActivityHandler(handlers.NewBaseHandler(), cfg.Feed)
	rg.GET("/activity", handler.Recent)
}

// registerSettingsRoutes registers clinic settings endpoints.
func registerSettingsRoutes(rg *gin.RouterGroup, svcs *services) {
	handler := handlers.NewSettingsHandler(handlers.NewBaseHandler(), svcs.settings)

	group := rg.Group("/settings")
	group.GET("/entreprise", middleware.RequirePermission("settings:read"), handler.GetEntreprise)
	group.PUT("/entreprise", middleware.RequirePermission("settings:update"), handler.SaveEntreprise)
	group.GET("", middleware.RequirePermission("settings:read"), handler.ListSettings)
	group.GET("/:key", middleware.RequirePermission("settings:read"), handler.GetSetting)
	group.PUT("/:key", middleware.RequirePermission("settings:update"), handler.SetSetting)
}

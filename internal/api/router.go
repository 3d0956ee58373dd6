package api

import (
	"net/http" // HTTP status codes

	"invest_platform/internal/middleware" // Auth and CORS middleware
	"invest_platform/internal/repository" // Role lookups
	"invest_platform/internal/service"    // Use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// Services bundles everything the routes depend on
type Services struct {
	Store    repository.Store         // Used by the admin role check
	Identity *service.IdentityService // Registration and login
	Catalog  *service.CatalogService  // Offerings
	Ledger   *service.LedgerService   // Balance, deposits and allocations
	Admin    *service.AdminService    // Back office
}

// RouterConfig holds the HTTP settings of the router
type RouterConfig struct {
	JWTSecret  string // Secret used to verify bearer tokens
	CorsOrigin string // Allowed origins, "*" for any
}

// NewRouter wires every route onto a fresh gin engine
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CorsMiddleware(cfg.CorsOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	public := r.Group("/api")
	public.POST("/register", RegisterHandler(svc.Identity)) // Registration endpoint
	public.POST("/login", LoginHandler(svc.Identity))       // Login endpoint

	// Investor routes (protected by JWT)
	auth := r.Group("/api")
	auth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	auth.GET("/profile", ProfileHandler(svc.Identity))                  // Current user
	auth.GET("/investments", ListInvestmentsHandler(svc.Catalog))       // Offering catalog
	auth.GET("/investments/categories", CategoriesHandler(svc.Catalog)) // Category list
	auth.GET("/saldo", BalanceHandler(svc.Ledger))                      // Balance endpoint
	auth.POST("/depositar", DepositHandler(svc.Ledger))                 // Deposit request
	auth.POST("/gerar_pix", GeneratePixHandler(svc.Ledger))             // PIX deposit request
	auth.POST("/investir/:id", AllocateHandler(svc.Ledger))             // Allocation endpoint
	auth.GET("/meus_investimentos", MyAllocationsHandler(svc.Ledger))   // Holdings
	auth.GET("/transacoes", MyTransactionsHandler(svc.Ledger))          // Transaction history

	// Admin routes (protected, admin only)
	admin := r.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(svc.Store))
	admin.POST("/investments", CreateInvestmentHandler(svc.Catalog))               // Create offering
	admin.POST("/transacoes/:id/aprovar", ReviewDepositHandler(svc.Admin, true))   // Approve deposit
	admin.POST("/transacoes/:id/rejeitar", ReviewDepositHandler(svc.Admin, false)) // Reject deposit
	admin.GET("/users", ListUsersHandler(svc.Admin))                               // List users
	admin.GET("/transacoes", ListTransactionsHandler(svc.Admin))                   // List transactions

	return r
}

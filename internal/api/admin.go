package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Date parsing

	"invest_platform/internal/domain"     // Importing domain models
	"invest_platform/internal/repository" // Transaction filter
	"invest_platform/internal/service"    // Use cases

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money arithmetic
)

const (
	defaultPageSize = 20  // Page size when none is given
	maxPageSize     = 100 // Largest page size accepted
)

// OfferingRequest is the body of POST /api/admin/investments
type OfferingRequest struct {
	Title         string           `json:"titulo"`          // Title
	Description   string           `json:"descricao"`       // Description
	Category      string           `json:"categoria"`       // Instrument category key
	MinimumAmount decimal.Decimal  `json:"valor_minimo"`    // Minimum allocation
	ReturnRate    decimal.Decimal  `json:"taxa_retorno"`    // Annual return rate in percent
	TermMonths    int              `json:"prazo"`           // Term in months
	TaxExempt     bool             `json:"isencao_ir"`      // Income tax exemption
	TotalAmount   *decimal.Decimal `json:"valor_total"`     // Optional target raise
	MaturityDate  string           `json:"data_vencimento"` // Optional, YYYY-MM-DD or RFC 3339
}

// UserAdminResponse is a user as seen by the back office
type UserAdminResponse struct {
	UserResponse
	Role string `json:"role"` // User role
}

func newUserAdminResponse(u *domain.User) UserAdminResponse {
	return UserAdminResponse{UserResponse: newUserResponse(u), Role: u.Role}
}

// parseDate accepts a plain date or a full RFC 3339 timestamp
func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// pagination reads ?page and ?page_size, falling back to the defaults on bad input
func pagination(c *gin.Context) (int, int) {
	page := 1                   // Default page number
	pageSize := defaultPageSize // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
			pageSize = v // Set page size
		}
	}
	return page, pageSize
}

// CreateInvestmentHandler adds an offering to the catalog
func CreateInvestmentHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OfferingRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Dados inválidos")
			return
		}
		maturity, ok := parseDate(req.MaturityDate)
		if !ok {
			badRequest(c, "Data de vencimento inválida")
			return
		}
		inv, err := catalog.CreateOffering(c.Request.Context(), service.OfferingInput{
			Title:         req.Title,
			Description:   req.Description,
			Category:      req.Category,
			MinimumAmount: req.MinimumAmount,
			ReturnRate:    req.ReturnRate,
			TermMonths:    req.TermMonths,
			TaxExempt:     req.TaxExempt,
			TotalAmount:   req.TotalAmount,
			MaturityDate:  maturity,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newInvestmentResponse(inv))
	}
}

// ReviewDepositHandler approves or rejects the pending deposit in the path
func ReviewDepositHandler(admin *service.AdminService, approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		txID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondError(c, domain.Errorf(domain.ErrNotFound, "Transação não encontrada"))
			return
		}
		txn, err := admin.ReviewDeposit(c.Request.Context(), uint(txID), approve)
		if err != nil {
			respondError(c, err)
			return
		}
		message := "Depósito rejeitado"
		if approve {
			message = "Depósito aprovado"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     message,                     // Outcome
			"transaction": newTransactionResponse(txn), // Reviewed deposit
		})
	}
}

// ListUsersHandler returns one page of users
func ListUsersHandler(admin *service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pagination(c)
		users, err := admin.ListUsers(c.Request.Context(), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPageResponse(users, newUserAdminResponse))
	}
}

// ListTransactionsHandler returns one page of transactions, filtered by ?user_id, ?tipo and ?status
func ListTransactionsHandler(admin *service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter repository.TransactionFilter
		if uid := c.Query("user_id"); uid != "" {
			v, err := strconv.ParseUint(uid, 10, 32)
			if err != nil {
				badRequest(c, "user_id inválido")
				return
			}
			filter.UserID = uint(v) // Filter by user
		}
		filter.Kind = domain.TransactionKind(c.Query("tipo"))       // Filter by transaction kind
		filter.Status = domain.TransactionStatus(c.Query("status")) // Filter by status

		page, pageSize := pagination(c)
		txns, err := admin.ListTransactions(c.Request.Context(), filter, page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPageResponse(txns, newTransactionResponse))
	}
}

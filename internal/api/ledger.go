package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"invest_platform/internal/domain"     // Error kinds
	"invest_platform/internal/middleware" // Caller identity
	"invest_platform/internal/service"    // Use cases

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money arithmetic
)

// AmountRequest is the body of the deposit and allocation routes
type AmountRequest struct {
	Amount *decimal.Decimal `json:"valor"` // Amount in BRL
}

// BankDetails are the payee details shown next to a PIX charge
type BankDetails struct {
	Payee   string `json:"favorecido"` // Payee name
	CNPJ    string `json:"cnpj"`       // Payee CNPJ
	Bank    string `json:"banco"`      // Bank
	Agency  string `json:"agencia"`    // Branch
	Account string `json:"conta"`      // Account number
	PixKey  string `json:"chave_pix"`  // PIX key
}

// PixResponse is returned by POST /api/gerar_pix
type PixResponse struct {
	PixID         string      `json:"pix_id"`          // Charge reference
	BankDetails   BankDetails `json:"dados_bancarios"` // Payee details
	QRCode        string      `json:"qr_code"`         // Base64 PNG of the QR code
	CopyAndPaste  string      `json:"pix_copia_cola"`  // BR Code payload
	Amount        float64     `json:"valor"`           // Charged amount
	TransactionID uint        `json:"transaction_id"`  // Pending deposit
}

// bindAmount reads {"valor": ...} from the body, writing a 400 on failure
func bindAmount(c *gin.Context) (decimal.Decimal, bool) {
	var req AmountRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		badRequest(c, "Valor é obrigatório")
		return decimal.Zero, false
	}
	return *req.Amount, true
}

// callerID returns the authenticated user, writing a 401 when absent
func callerID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c) // Get userID from context
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

// BalanceHandler returns the caller's available balance
func BalanceHandler(ledger *service.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		balance, err := ledger.Balance(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"saldo": money(balance)})
	}
}

// DepositHandler records a pending deposit for the caller
func DepositHandler(ledger *service.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		amount, ok := bindAmount(c)
		if !ok {
			return
		}
		txn, err := ledger.RequestDeposit(c.Request.Context(), userID, amount)
		if err != nil {
			respondError(c, err)
			return
		}
		// The balance is untouched until an admin approves the deposit
		c.JSON(http.StatusOK, gin.H{
			"message":        "Depósito registrado. Aguardando aprovação.",
			"transaction_id": txn.ID,
		})
	}
}

// GeneratePixHandler issues a PIX charge and records it as a pending deposit
func GeneratePixHandler(ledger *service.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		amount, ok := bindAmount(c)
		if !ok {
			return
		}
		deposit, err := ledger.RequestPixDeposit(c.Request.Context(), userID, amount)
		if err != nil {
			respondError(c, err)
			return
		}
		details := BankDetails{
			Payee:   deposit.Payee.PayeeName,
			CNPJ:    deposit.Payee.CNPJ,
			Bank:    deposit.Payee.Bank,
			Agency:  deposit.Payee.Agency,
			Account: deposit.Payee.Account,
			PixKey:  deposit.Payee.Key,
		}
		c.JSON(http.StatusOK, PixResponse{
			PixID:         deposit.Charge.Reference,
			BankDetails:   details,
			QRCode:        deposit.Charge.QRCodePNG,
			CopyAndPaste:  deposit.Charge.Payload,
			Amount:        money(deposit.Charge.Amount),
			TransactionID: deposit.Transaction.ID,
		})
	}
}

// AllocateHandler invests part of the caller's balance into the offering in the path
func AllocateHandler(ledger *service.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		investmentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			// Non-numeric ids never match an offering
			respondError(c, domain.Errorf(domain.ErrNotFound, "Investimento não encontrado"))
			return
		}
		amount, ok := bindAmount(c)
		if !ok {
			return
		}
		result, err := ledger.Allocate(c.Request.Context(), userID, uint(investmentID), amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":        "Investimento realizado com sucesso",
			"investment":     newAllocationResponse(result.Allocation),
			"saldo_restante": money(result.RemainingBalance),
		})
	}
}

// MyAllocationsHandler lists the caller's holdings with their offerings
func MyAllocationsHandler(ledger *service.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		allocs, err := ledger.MyAllocations(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newHoldingList(allocs))
	}
}

// MyTransactionsHandler lists the caller's ledger, newest first
func MyTransactionsHandler(ledger *service.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		txns, err := ledger.MyTransactions(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newTransactionList(txns))
	}
}

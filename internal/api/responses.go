package api

import (
	"time" // Date formatting

	"invest_platform/internal/domain"  // Importing domain models
	"invest_platform/internal/service" // Page type

	"github.com/shopspring/decimal" // Money arithmetic
)

// money renders a cent-precise amount as a JSON number
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// isoDate renders a timestamp in ISO 8601, nil when unset
func isoDate(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        uint    `json:"id"`           // User ID
	TaxID     string  `json:"cpf"`          // CPF
	Email     string  `json:"email"`        // Email
	Name      string  `json:"nome"`         // Display name
	Balance   float64 `json:"saldo"`        // Available balance
	CreatedAt *string `json:"data_criacao"` // Creation date
	Active    bool    `json:"ativo"`        // Whether the user may log in
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		TaxID:     u.TaxID,
		Email:     u.Email,
		Name:      u.Name,
		Balance:   money(u.Balance),
		CreatedAt: isoDate(&u.CreatedAt),
		Active:    u.Active,
	}
}

// InvestmentResponse is the public view of an offering
type InvestmentResponse struct {
	ID            uint                    `json:"id"`              // Offering ID
	Title         string                  `json:"titulo"`          // Title
	Description   string                  `json:"descricao"`       // Description
	Category      domain.Category         `json:"categoria"`       // Instrument category
	MinimumAmount float64                 `json:"valor_minimo"`    // Minimum allocation
	ReturnRate    float64                 `json:"taxa_retorno"`    // Annual return rate in percent
	TermMonths    int                     `json:"prazo"`           // Term in months
	Status        domain.InvestmentStatus `json:"status"`          // disponivel or esgotado
	TaxExempt     bool                    `json:"isencao_ir"`      // Income tax exemption
	TotalAmount   *float64                `json:"valor_total"`     // Target raise, null when open-ended
	RaisedAmount  float64                 `json:"valor_captado"`   // Amount raised so far
	CreatedAt     *string                 `json:"data_criacao"`    // Creation date
	MaturityDate  *string                 `json:"data_vencimento"` // Maturity date
}

func newInvestmentResponse(inv *domain.Investment) InvestmentResponse {
	resp := InvestmentResponse{
		ID:            inv.ID,
		Title:         inv.Title,
		Description:   inv.Description,
		Category:      inv.Category,
		MinimumAmount: money(inv.MinimumAmount),
		ReturnRate:    money(inv.ReturnRate),
		TermMonths:    inv.TermMonths,
		Status:        inv.Status,
		TaxExempt:     inv.TaxExempt,
		RaisedAmount:  money(inv.RaisedAmount),
		CreatedAt:     isoDate(&inv.CreatedAt),
		MaturityDate:  isoDate(inv.MaturityDate),
	}
	if inv.TotalAmount.Valid {
		total := money(inv.TotalAmount.Decimal)
		resp.TotalAmount = &total
	}
	return resp
}

func newInvestmentList(invs []domain.Investment) []InvestmentResponse {
	out := make([]InvestmentResponse, len(invs))
	for i := range invs {
		out[i] = newInvestmentResponse(&invs[i])
	}
	return out
}

// AllocationResponse is a single allocation as returned after investing
type AllocationResponse struct {
	ID           uint    `json:"id"`             // Allocation ID
	UserID       uint    `json:"user_id"`        // Owner
	InvestmentID uint    `json:"investment_id"`  // Offering
	Amount       float64 `json:"valor_aplicado"` // Allocated amount
	CreatedAt    *string `json:"data_aplicacao"` // Allocation date
}

func newAllocationResponse(a *domain.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		InvestmentID: a.InvestmentID,
		Amount:       money(a.Amount),
		CreatedAt:    isoDate(&a.CreatedAt),
	}
}

// HoldingResponse is an offering together with the caller's allocation in it
type HoldingResponse struct {
	InvestmentResponse
	Amount    float64 `json:"valor_aplicado"` // Allocated amount
	AppliedAt *string `json:"data_aplicacao"` // Allocation date
}

func newHoldingList(allocs []domain.Allocation) []HoldingResponse {
	out := make([]HoldingResponse, len(allocs))
	for i := range allocs {
		out[i] = HoldingResponse{
			InvestmentResponse: newInvestmentResponse(&allocs[i].Investment),
			Amount:             money(allocs[i].Amount),
			AppliedAt:          isoDate(&allocs[i].CreatedAt),
		}
	}
	return out
}

// TransactionResponse is the public view of a ledger entry
type TransactionResponse struct {
	ID          uint                     `json:"id"`             // Transaction ID
	UserID      uint                     `json:"user_id"`        // Owner
	Kind        domain.TransactionKind   `json:"tipo"`           // deposito, investimento or resgate
	Amount      float64                  `json:"valor"`          // Amount
	Status      domain.TransactionStatus `json:"status"`         // pendente, aprovado or rejeitado
	Description string                   `json:"descricao"`      // Description
	CreatedAt   *string                  `json:"data_criacao"`   // Creation date
	ApprovedAt  *string                  `json:"data_aprovacao"` // Approval date
	PixID       *string                  `json:"pix_id"`         // PIX charge reference
	PixPayload  *string                  `json:"pix_qr_code"`    // PIX copy-and-paste payload
}

func newTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Kind:        t.Kind,
		Amount:      money(t.Amount),
		Status:      t.Status,
		Description: t.Description,
		CreatedAt:   isoDate(&t.CreatedAt),
		ApprovedAt:  isoDate(t.ApprovedAt),
		PixID:       t.PixID,
		PixPayload:  t.PixPayload,
	}
}

func newTransactionList(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = newTransactionResponse(&txns[i])
	}
	return out
}

// PageResponse wraps one page of an admin listing
type PageResponse[T any] struct {
	Items      []T   `json:"items"`       // Page content
	Page       int   `json:"page"`        // Current page
	PageSize   int   `json:"page_size"`   // Page size
	Total      int64 `json:"total"`       // Total number of rows
	TotalPages int   `json:"total_pages"` // Total pages
}

func newPageResponse[S, T any](p service.Page[S], convert func(*S) T) PageResponse[T] {
	items := make([]T, len(p.Items))
	for i := range p.Items {
		items[i] = convert(&p.Items[i])
	}
	return PageResponse[T]{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

package service

import (
	"context" // Request scoped cancellation
	"errors"  // Sentinel matching
	"time"    // Approval timestamps

	"invest_platform/internal/config"     // PIX payee settings
	"invest_platform/internal/domain"     // Importing domain models
	"invest_platform/internal/pix"        // BR Code charges
	"invest_platform/internal/repository" // Persistence layer
	"invest_platform/internal/utils"      // Cache helpers

	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
)

// LedgerService moves money: deposits, allocations and the history of both
type LedgerService struct {
	store repository.Store
	rdb   *redis.Client // nil disables caching
	pix   *pix.Generator
	payee config.PixConfig
}

// NewLedgerService builds a LedgerService issuing PIX charges to payee
func NewLedgerService(store repository.Store, rdb *redis.Client, payee config.PixConfig) *LedgerService {
	return &LedgerService{
		store: store,
		rdb:   rdb,
		pix:   pix.NewGenerator(pix.Payee{Key: payee.Key, Name: payee.PayeeName, City: payee.City}),
		payee: payee,
	}
}

// PixDeposit is a pending deposit together with the charge the user must pay
type PixDeposit struct {
	Charge      *pix.Charge
	Transaction *domain.Transaction
	Payee       config.PixConfig
}

// AllocationResult is a completed allocation and the balance left afterwards
type AllocationResult struct {
	Allocation       *domain.Allocation
	Transaction      *domain.Transaction
	RemainingBalance decimal.Decimal
}

// normalizeAmount rejects non-positive values and fractions of a cent
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.Errorf(domain.ErrValidation, "Valor deve ser positivo")
	}
	cents := amount.Round(2)
	if !cents.Equal(amount) {
		return decimal.Zero, domain.Errorf(domain.ErrValidation, "Valor deve ter no máximo duas casas decimais")
	}
	return cents, nil
}

// Balance returns the current balance of the user
func (s *LedgerService) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	cacheKey := utils.BalanceKey(userID) // Per-user cache key
	var cached decimal.Decimal
	if found, err := utils.GetCache(ctx, s.rdb, cacheKey, &cached); err == nil && found {
		return cached, nil
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return decimal.Zero, userLookupError(err)
	}
	_ = utils.SetCache(ctx, s.rdb, cacheKey, user.Balance, utils.CacheTTL)
	return user.Balance, nil
}

// RequestDeposit records a pending deposit. The balance is credited only
// when an admin approves it.
func (s *LedgerService) RequestDeposit(ctx context.Context, userID uint, amount decimal.Decimal) (*domain.Transaction, error) {
	amount, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}
	txn := &domain.Transaction{
		UserID:      userID,
		Kind:        domain.KindDeposit,
		Amount:      amount,
		Status:      domain.TxPending,
		Description: "Depósito de R$ " + amount.StringFixed(2),
	}
	if err := s.createDeposit(ctx, txn); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": txn.ID,
		"amount":         amount.StringFixed(2),
		"type":           domain.KindDeposit,
	}).Info("Deposit requested")
	return txn, nil
}

// RequestPixDeposit issues a PIX charge and records it as a pending deposit
func (s *LedgerService) RequestPixDeposit(ctx context.Context, userID uint, amount decimal.Decimal) (*PixDeposit, error) {
	amount, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}
	charge, err := s.pix.NewCharge(amount)
	if err != nil {
		return nil, err
	}
	txn := &domain.Transaction{
		UserID:      userID,
		Kind:        domain.KindDeposit,
		Amount:      amount,
		Status:      domain.TxPending,
		Description: "Depósito PIX de R$ " + amount.StringFixed(2),
		PixID:       &charge.Reference,
		PixPayload:  &charge.Payload,
	}
	if err := s.createDeposit(ctx, txn); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": txn.ID,
		"pix_id":         charge.Reference,
		"amount":         amount.StringFixed(2),
	}).Info("PIX deposit requested")
	return &PixDeposit{Charge: charge, Transaction: txn, Payee: s.payee}, nil
}

func (s *LedgerService) createDeposit(ctx context.Context, txn *domain.Transaction) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.GetUserByID(ctx, txn.UserID); err != nil {
			return userLookupError(err)
		}
		return tx.CreateTransaction(ctx, txn)
	})
}

// Allocate moves amount from the user's balance into an offering. The debit,
// the allocation, the raised-amount increment and the ledger entry commit
// together or not at all.
func (s *LedgerService) Allocate(ctx context.Context, userID, investmentID uint, amount decimal.Decimal) (*AllocationResult, error) {
	amount, err := normalizeAmount(amount) // Positive and whole cents
	if err != nil {
		return nil, err
	}

	var result AllocationResult
	var category domain.Category
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		// The investor must exist
		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			return userLookupError(err)
		}
		// Lock the offering row so concurrent allocations serialize on it
		inv, err := tx.GetInvestmentForUpdate(ctx, investmentID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, "Investimento não encontrado")
		}
		if err != nil {
			return err
		}
		// Offering checks come before touching the balance
		if inv.Status != domain.StatusAvailable {
			return domain.Errorf(domain.ErrValidation, "Investimento não está disponível")
		}
		if amount.LessThan(inv.MinimumAmount) {
			return domain.Errorf(domain.ErrValidation, "Valor mínimo para este investimento é R$ %s", inv.MinimumAmount.StringFixed(2))
		}
		// Conditional UPDATE, the balance never drops below zero
		if err := tx.DebitBalance(ctx, userID, amount); err != nil {
			if errors.Is(err, repository.ErrInsufficientBalance) {
				return domain.Errorf(domain.ErrValidation, "Saldo insuficiente")
			}
			return err
		}

		// Record the holding
		alloc := &domain.Allocation{UserID: userID, InvestmentID: inv.ID, Amount: amount}
		if err := tx.CreateAllocation(ctx, alloc); err != nil {
			return err
		}
		// Grow the raised amount of the offering
		if err := tx.AddRaisedAmount(ctx, inv.ID, amount); err != nil {
			return err
		}
		// Ledger entry, approved at once since no review is needed
		now := time.Now().UTC()
		txn := &domain.Transaction{
			UserID:      userID,
			Kind:        domain.KindAllocation,
			Amount:      amount,
			Status:      domain.TxApproved,
			Description: "Investimento em " + inv.Title,
			ApprovedAt:  &now,
		}
		if err := tx.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		// Re-read the balance the debit left behind
		user, err := tx.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		result = AllocationResult{Allocation: alloc, Transaction: txn, RemainingBalance: user.Balance}
		category = inv.Category
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Drop cached views only after the commit
	invalidateBalance(ctx, s.rdb, userID)
	invalidateOfferings(ctx, s.rdb, category)
	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"investment_id": investmentID,
		"amount":        amount.StringFixed(2),
		"type":          domain.KindAllocation,
		"timestamp":     time.Now().Format(time.RFC3339),
	}).Info("Allocation transaction")
	return &result, nil
}

// MyAllocations returns the user's allocations with their offerings
func (s *LedgerService) MyAllocations(ctx context.Context, userID uint) ([]domain.Allocation, error) {
	return s.store.ListAllocationsByUser(ctx, userID)
}

// MyTransactions returns the user's ledger, newest first
func (s *LedgerService) MyTransactions(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	return s.store.ListTransactionsByUser(ctx, userID)
}

func invalidateBalance(ctx context.Context, rdb *redis.Client, userID uint) {
	if err := utils.DeleteCache(ctx, rdb, utils.BalanceKey(userID)); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Cache invalidation failed")
	}
}

// Package repository is the persistence boundary of the marketplace. Every
// use case that mutates more than one row runs inside Store.Transaction.
package repository

import (
	"context" // Request scoped cancellation
	"errors"  // Sentinel errors
	"time"    // Timestamps

	"invest_platform/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Money arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

// Sentinel errors shared by every Store implementation.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicate           = errors.New("duplicate record")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotPending          = errors.New("transaction is not pending")
)

// Compile-time check: *GormStore must satisfy Store.
var _ Store = (*GormStore)(nil)

// TransactionFilter narrows the admin transaction listing. Zero values match everything.
type TransactionFilter struct {
	UserID uint
	Kind   domain.TransactionKind
	Status domain.TransactionStatus
}

// Store is the unit of work used by the services.
type Store interface {
	// Transaction runs fn against a Store bound to a single database
	// transaction. It commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// --- Users ---
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	GetUserByTaxID(ctx context.Context, taxID string) (*domain.User, error)
	TaxIDExists(ctx context.Context, taxID string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
	DebitBalance(ctx context.Context, userID uint, amount decimal.Decimal) error
	CreditBalance(ctx context.Context, userID uint, amount decimal.Decimal) error
	SetUserRole(ctx context.Context, userID uint, role string) error

	// --- Investments ---
	CreateInvestment(ctx context.Context, inv *domain.Investment) error
	GetInvestmentForUpdate(ctx context.Context, id uint) (*domain.Investment, error)
	ListInvestments(ctx context.Context, category domain.Category) ([]domain.Investment, error)
	AddRaisedAmount(ctx context.Context, id uint, amount decimal.Decimal) error

	// --- Allocations ---
	CreateAllocation(ctx context.Context, alloc *domain.Allocation) error
	ListAllocationsByUser(ctx context.Context, userID uint) ([]domain.Allocation, error)

	// --- Transactions ---
	CreateTransaction(ctx context.Context, txn *domain.Transaction) error
	GetTransactionForUpdate(ctx context.Context, id uint) (*domain.Transaction, error)
	SetTransactionStatus(ctx context.Context, id uint, status domain.TransactionStatus, approvedAt *time.Time) error
	ListTransactionsByUser(ctx context.Context, userID uint) ([]domain.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter, offset, limit int) ([]domain.Transaction, int64, error)
}

// GormStore implements Store on top of GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transaction implements Store.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translate maps gorm sentinels onto the repository ones
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

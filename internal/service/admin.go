package service

import (
	"context" // Request scoped cancellation
	"errors"  // Sentinel matching
	"time"    // Approval timestamps

	"invest_platform/internal/domain"     // Importing domain models
	"invest_platform/internal/repository" // Persistence layer

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// AdminService backs the back-office routes
type AdminService struct {
	store repository.Store // Persistence
	rdb   *redis.Client    // nil disables caching
}

// NewAdminService builds an AdminService. rdb may be nil.
func NewAdminService(store repository.Store, rdb *redis.Client) *AdminService {
	return &AdminService{store: store, rdb: rdb}
}

// Page is one page of a listing
type Page[T any] struct {
	Items      []T   // Rows of this page
	Page       int   // 1-based page number
	PageSize   int   // Rows per page
	Total      int64 // Rows across all pages
	TotalPages int   // Number of pages
}

func newPage[T any](items []T, page, pageSize int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (int(total) + pageSize - 1) / pageSize,
	}
}

// ReviewDeposit approves or rejects a pending deposit. Approval credits the
// deposit amount to the owner's balance in the same transaction.
func (s *AdminService) ReviewDeposit(ctx context.Context, transactionID uint, approve bool) (*domain.Transaction, error) {
	var reviewed *domain.Transaction
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		// Lock the transaction row so two reviewers cannot both act on it
		txn, err := tx.GetTransactionForUpdate(ctx, transactionID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, "Transação não encontrada")
		}
		if err != nil {
			return err
		}
		// Only pending deposits are reviewable
		if txn.Kind != domain.KindDeposit {
			return domain.Errorf(domain.ErrValidation, "Transação não é um depósito")
		}
		if txn.Status != domain.TxPending {
			return domain.Errorf(domain.ErrValidation, "Depósito já foi revisado")
		}

		// Decide the new status, approval also stamps the time
		status := domain.TxRejected
		var approvedAt *time.Time
		if approve {
			now := time.Now().UTC()
			status, approvedAt = domain.TxApproved, &now
		}
		// Conditional UPDATE on status = pendente
		if err := tx.SetTransactionStatus(ctx, txn.ID, status, approvedAt); err != nil {
			if errors.Is(err, repository.ErrNotPending) {
				return domain.Errorf(domain.ErrValidation, "Depósito já foi revisado")
			}
			return err
		}
		// Credit the owner in the same transaction as the status change
		if approve {
			if err := tx.CreditBalance(ctx, txn.UserID, txn.Amount); err != nil {
				return userLookupError(err)
			}
		}
		txn.Status, txn.ApprovedAt = status, approvedAt
		reviewed = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateBalance(ctx, s.rdb, reviewed.UserID) // Cached balance is stale after a credit
	logrus.WithFields(logrus.Fields{
		"transaction_id": reviewed.ID,
		"user_id":        reviewed.UserID,
		"amount":         reviewed.Amount.StringFixed(2),
		"status":         reviewed.Status,
	}).Info("Deposit reviewed")
	return reviewed, nil
}

// PromoteAdmin grants the admin role to the user holding taxID
func (s *AdminService) PromoteAdmin(ctx context.Context, taxID string) (*domain.User, error) {
	user, err := s.store.GetUserByTaxID(ctx, taxID)
	if err != nil {
		return nil, userLookupError(err)
	}
	if user.IsAdmin() {
		return user, nil
	}
	if err := s.store.SetUserRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return nil, userLookupError(err)
	}
	user.Role = domain.RoleAdmin
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("User promoted to admin")
	return user, nil
}

// ListUsers returns one page of users ordered by id
func (s *AdminService) ListUsers(ctx context.Context, page, pageSize int) (Page[domain.User], error) {
	users, total, err := s.store.ListUsers(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return Page[domain.User]{}, err
	}
	return newPage(users, page, pageSize, total), nil
}

// ListTransactions returns one page of transactions matching filter, newest first
func (s *AdminService) ListTransactions(ctx context.Context, filter repository.TransactionFilter, page, pageSize int) (Page[domain.Transaction], error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return Page[domain.Transaction]{}, domain.Errorf(domain.ErrValidation, "Tipo inválido")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return Page[domain.Transaction]{}, domain.Errorf(domain.ErrValidation, "Status inválido")
	}
	txns, total, err := s.store.ListTransactions(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return Page[domain.Transaction]{}, err
	}
	return newPage(txns, page, pageSize, total), nil
}

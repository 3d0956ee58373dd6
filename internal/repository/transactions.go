package repository

import (
	"context" // Request scoped cancellation
	"time"    // Timestamps

	"invest_platform/internal/domain" // Importing domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Row locking clauses
)

func (s *GormStore) CreateTransaction(ctx context.Context, txn *domain.Transaction) error {
	return translate(s.db.WithContext(ctx).Create(txn).Error)
}

// GetTransactionForUpdate loads a transaction and locks its row until the
// surrounding transaction ends.
func (s *GormStore) GetTransactionForUpdate(ctx context.Context, id uint) (*domain.Transaction, error) {
	var txn domain.Transaction
	if err := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&txn, id).Error; err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

// SetTransactionStatus moves a pending transaction to status. The update is
// conditional on the row still being pending, so a deposit is reviewed once.
func (s *GormStore) SetTransactionStatus(ctx context.Context, id uint, status domain.TransactionStatus, approvedAt *time.Time) error {
	res := s.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("id = ? AND status = ?", id, domain.TxPending).
		Updates(map[string]any{"status": status, "approved_at": approvedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

// ListTransactionsByUser returns the user's transactions, newest first.
func (s *GormStore) ListTransactionsByUser(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// ListTransactions returns one filtered window of transactions, newest first,
// and the total count matching filter.
func (s *GormStore) ListTransactions(ctx context.Context, filter TransactionFilter, offset, limit int) ([]domain.Transaction, int64, error) {
	// Start a fresh statement per query so Count does not leak into Find
	filtered := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&domain.Transaction{})
		if filter.UserID != 0 {
			query = query.Where("user_id = ?", filter.UserID) // Filter by user ID
		}
		if filter.Kind != "" {
			query = query.Where("kind = ?", filter.Kind) // Filter by transaction kind
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status) // Filter by status
		}
		return query
	}
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txns []domain.Transaction
	if err := filtered().Order("created_at desc").Order("id desc").Offset(offset).Limit(limit).Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

package repository

import (
	"context" // Request scoped cancellation

	"invest_platform/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Money arithmetic
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Row locking clauses
)

func (s *GormStore) CreateInvestment(ctx context.Context, inv *domain.Investment) error {
	return translate(s.db.WithContext(ctx).Create(inv).Error)
}

// GetInvestmentForUpdate reads the offering with a row lock held until the
// surrounding transaction ends. SQLite ignores the locking clause.
func (s *GormStore) GetInvestmentForUpdate(ctx context.Context, id uint) (*domain.Investment, error) {
	var inv domain.Investment
	if err := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, id).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

// ListInvestments returns every offering ordered by id. An empty category matches all.
func (s *GormStore) ListInvestments(ctx context.Context, category domain.Category) ([]domain.Investment, error) {
	query := s.db.WithContext(ctx).Order("id")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var investments []domain.Investment
	if err := query.Find(&investments).Error; err != nil {
		return nil, err
	}
	return investments, nil
}

// AddRaisedAmount increments the amount raised by the offering, rounded to cents
func (s *GormStore) AddRaisedAmount(ctx context.Context, id uint, amount decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&domain.Investment{}).
		Where("id = ?", id).
		Update("raised_amount", gorm.Expr("ROUND(raised_amount + ?, 2)", amount)) // Cent-exact on every dialect
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAllocation inserts an allocation
func (s *GormStore) CreateAllocation(ctx context.Context, alloc *domain.Allocation) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(alloc).Error)
}

// ListAllocationsByUser returns the user's allocations with their offering loaded.
func (s *GormStore) ListAllocationsByUser(ctx context.Context, userID uint) ([]domain.Allocation, error) {
	var allocations []domain.Allocation
	err := s.db.WithContext(ctx).
		Joins("Investment").
		Where("user_investments.user_id = ?", userID).
		Order("user_investments.id").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

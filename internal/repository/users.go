package repository

import (
	"context" // Request scoped cancellation

	"invest_platform/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Money arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

func (s *GormStore) CreateUser(ctx context.Context, user *domain.User) error {
	return translate(s.db.WithContext(ctx).Omit("Allocations", "Transactions").Create(user).Error)
}

// GetUserByID loads a user by primary key, ErrNotFound when absent
func (s *GormStore) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByTaxID loads a user by CPF
func (s *GormStore) GetUserByTaxID(ctx context.Context, taxID string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("tax_id = ?", taxID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) TaxIDExists(ctx context.Context, taxID string) (bool, error) {
	return s.exists(ctx, "tax_id = ?", taxID)
}

func (s *GormStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email = ?", email)
}

// exists reports whether any user matches query
func (s *GormStore) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUsers returns one window of users ordered by id and the total count
func (s *GormStore) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// DebitBalance subtracts amount from the user's balance in a single
// conditional UPDATE, so two concurrent debits can never overdraw it.
// Returns ErrInsufficientBalance when the balance is lower than amount.
// The result is rounded to cents in SQL: SQLite keeps NUMERIC columns as
// REAL and would otherwise accumulate binary fractions.
func (s *GormStore) DebitBalance(ctx context.Context, userID uint, amount decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("ROUND(balance - ?, 2)", amount)) // Cent-exact on every dialect
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// CreditBalance adds amount to the user's balance, rounded to cents like DebitBalance
func (s *GormStore) CreditBalance(ctx context.Context, userID uint, amount decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("ROUND(balance + ?, 2)", amount)) // Cent-exact on every dialect
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserRole replaces the role of the user
func (s *GormStore) SetUserRole(ctx context.Context, userID uint, role string) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

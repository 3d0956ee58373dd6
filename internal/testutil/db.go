// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"testing" // Test helpers

	"invest_platform/internal/db"     // Schema migrations
	"invest_platform/internal/domain" // Importing domain models

	"github.com/google/uuid"        // Unique test identifiers
	"github.com/shopspring/decimal" // Money arithmetic
	"golang.org/x/crypto/bcrypt"    // Password hashing
	"gorm.io/driver/sqlite"         // In-memory SQLite for tests
	"gorm.io/gorm"                  // GORM ORM library
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	gdb, err := db.OpenDialector(sqlite.Open(dsn), true)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxIdleConns(4)
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

// CreateUser inserts an active user with the given balance. The password is
// hashed at minimum cost to keep tests fast.
func CreateUser(t *testing.T, gdb *gorm.DB, taxID, password string, balance decimal.Decimal) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &domain.User{
		TaxID:    taxID,
		Email:    taxID + "@example.com",
		Name:     "User " + taxID,
		Password: string(hash),
		Balance:  balance,
		Active:   true,
		Role:     domain.RoleUser,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateInvestment inserts an offering in the given status.
func CreateInvestment(t *testing.T, gdb *gorm.DB, minimum decimal.Decimal, status domain.InvestmentStatus) *domain.Investment {
	t.Helper()
	inv := &domain.Investment{
		Title:         "CRI Residencial " + uuid.NewString()[:8],
		Description:   "Recebíveis imobiliários",
		Category:      domain.CategoryCRI,
		MinimumAmount: minimum,
		ReturnRate:    decimal.RequireFromString("12.50"),
		TermMonths:    24,
		Status:        status,
		TaxExempt:     true,
		RaisedAmount:  decimal.Zero,
	}
	if err := gdb.Create(inv).Error; err != nil {
		t.Fatalf("create investment: %v", err)
	}
	return inv
}

// Reload reads the current row of dest by primary key.
func Reload(t *testing.T, gdb *gorm.DB, dest any, id uint) {
	t.Helper()
	if err := gdb.First(dest, id).Error; err != nil {
		t.Fatalf("reload %T %d: %v", dest, id, err)
	}
}

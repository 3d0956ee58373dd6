package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Money arithmetic
)

// Roles a user may hold
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User Model
type User struct {
	ID        uint            `gorm:"primaryKey"`                            // Primary key
	TaxID     string          `gorm:"size:14;uniqueIndex;not null"`          // CPF, unique
	Email     string          `gorm:"size:120;uniqueIndex;not null"`         // Unique email
	Name      string          `gorm:"size:100;not null"`                     // Display name
	Password  string          `gorm:"size:255;not null"`                     // Hashed password
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"` // Available balance
	Active    bool            `gorm:"not null;default:true"`                 // Inactive users cannot log in
	Role      string          `gorm:"size:20;not null;default:user"`         // Role: user or admin
	CreatedAt time.Time       `gorm:"autoCreateTime"`                        // Timestamp of creation

	Allocations  []Allocation  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"` // Investments held by the user
	Transactions []Transaction `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"` // Ledger entries of the user
}

// IsAdmin reports whether the user may access admin routes
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

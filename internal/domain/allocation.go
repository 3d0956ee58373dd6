package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Money arithmetic
)

// Allocation Model: an immutable contribution of a user into an investment
type Allocation struct {
	ID           uint            `gorm:"primaryKey"`                                     // Primary key
	UserID       uint            `gorm:"index;not null"`                                 // Foreign key to User
	InvestmentID uint            `gorm:"index;not null"`                                 // Foreign key to Investment
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`                    // Contributed amount
	CreatedAt    time.Time       `gorm:"autoCreateTime"`                                 // Contribution timestamp
	Investment   Investment      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

// TableName keeps the historical table name
func (Allocation) TableName() string {
	return "user_investments"
}

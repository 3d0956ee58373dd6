package domain

import (
	"fmt"  // Formatting
	"time" // Timestamps

	"github.com/shopspring/decimal" // Money arithmetic
)

// TransactionKind classifies a ledger entry
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposito"
	KindAllocation TransactionKind = "investimento"
	KindWithdrawal TransactionKind = "resgate"
)

// Valid reports whether k is a known kind
func (k TransactionKind) Valid() bool {
	switch k {
	case KindDeposit, KindAllocation, KindWithdrawal:
		return true
	}
	return false
}

// TransactionStatus is the review state of a ledger entry
type TransactionStatus string

const (
	TxPending  TransactionStatus = "pendente"
	TxApproved TransactionStatus = "aprovado"
	TxRejected TransactionStatus = "rejeitado"
)

// Valid reports whether s is a known status
func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxApproved, TxRejected:
		return true
	}
	return false
}

// Transaction Model
type Transaction struct {
	ID          uint              `gorm:"primaryKey"`                        // Primary key
	UserID      uint              `gorm:"index;not null"`                    // Foreign key to User
	Kind        TransactionKind   `gorm:"size:20;not null"`                  // deposito, investimento, resgate
	Amount      decimal.Decimal   `gorm:"type:decimal(15,2);not null"`       // Amount of the transaction
	Status      TransactionStatus `gorm:"size:20;not null;default:pendente"` // Review status
	Description string            `gorm:"size:255"`                          // Free-text description
	CreatedAt   time.Time         `gorm:"autoCreateTime;index"`              // Timestamp of creation
	ApprovedAt  *time.Time        `gorm:"default:null"`                      // Set when approved
	PixID       *string           `gorm:"size:100;index"`                    // PIX reference id
	PixPayload  *string           `gorm:"type:text"`                         // Rendered BR Code payload
}

// MarshalText refuses to serialize unknown kinds
func (k TransactionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown transaction kind %q", string(k))
	}
	return []byte(k), nil
}

// MarshalText refuses to serialize unknown statuses
func (s TransactionStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown transaction status %q", string(s))
	}
	return []byte(s), nil
}

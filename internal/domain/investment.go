package domain

import (
	"fmt"     // Formatting
	"strings" // String manipulation
	"time"    // Timestamps

	"github.com/shopspring/decimal" // Money arithmetic
)

// Category is the fixed-income instrument type of an offering
type Category string

const (
	CategoryDebentures            Category = "debentures"
	CategoryCRI                   Category = "cri" // real estate receivables
	CategoryCRA                   Category = "cra" // agribusiness receivables
	CategoryNotasFiscais          Category = "notas_fiscais"
	CategoryRecebiveisJudiciais   Category = "recebiveis_judiciais"
	CategoryOperacoesEstruturadas Category = "operacoes_estruturadas"
	CategoryPrecatoriosFederal    Category = "precatorios_federal"
	CategoryPrecatoriosEstadual   Category = "precatorios_estadual"
	CategoryPrecatoriosMunicipal  Category = "precatorios_municipal"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryDebentures,
	CategoryCRI,
	CategoryCRA,
	CategoryNotasFiscais,
	CategoryRecebiveisJudiciais,
	CategoryOperacoesEstruturadas,
	CategoryPrecatoriosFederal,
	CategoryPrecatoriosEstadual,
	CategoryPrecatoriosMunicipal,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryDebentures, CategoryCRI, CategoryCRA, CategoryNotasFiscais,
		CategoryRecebiveisJudiciais, CategoryOperacoesEstruturadas,
		CategoryPrecatoriosFederal, CategoryPrecatoriosEstadual, CategoryPrecatoriosMunicipal:
		return true
	}
	return false
}

// Label turns the category key into a title-cased label ("notas_fiscais" -> "Notas Fiscais")
func (c Category) Label() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// InvestmentStatus tells whether an offering still accepts contributions
type InvestmentStatus string

const (
	StatusAvailable InvestmentStatus = "disponivel"
	StatusExhausted InvestmentStatus = "esgotado"
)

// Valid reports whether s is a known status
func (s InvestmentStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusExhausted:
		return true
	}
	return false
}

// Investment Model (an offering users can allocate balance into)
type Investment struct {
	ID            uint                `gorm:"primaryKey"`                            // Primary key
	Title         string              `gorm:"size:200;not null"`                     // Offering title
	Description   string              `gorm:"type:text"`                             // Free-text description
	Category      Category            `gorm:"size:40;not null;index"`                // Instrument type
	MinimumAmount decimal.Decimal     `gorm:"type:decimal(15,2);not null"`           // Minimum contribution
	ReturnRate    decimal.Decimal     `gorm:"type:decimal(5,2);not null"`            // Annual return, percent
	TermMonths    int                 `gorm:"not null"`                              // Term in months
	Status        InvestmentStatus    `gorm:"size:20;not null;default:disponivel"`   // Availability
	TaxExempt     bool                `gorm:"not null;default:false"`                // Income tax exemption
	TotalAmount   decimal.NullDecimal `gorm:"type:decimal(15,2)"`                    // Optional capacity
	RaisedAmount  decimal.Decimal     `gorm:"type:decimal(15,2);not null;default:0"` // Amount raised so far
	CreatedAt     time.Time           `gorm:"autoCreateTime"`                        // Timestamp of creation
	MaturityDate  *time.Time          // Optional maturity
}

// MarshalText refuses to serialize unknown categories
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown investment category %q", string(c))
	}
	return []byte(c), nil
}

// MarshalText refuses to serialize unknown statuses
func (s InvestmentStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown investment status %q", string(s))
	}
	return []byte(s), nil
}

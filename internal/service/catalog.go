package service

import (
	"context" // Request scoped cancellation
	"strings" // String manipulation
	"time"    // Timestamps

	"invest_platform/internal/domain"     // Importing domain models
	"invest_platform/internal/repository" // Persistence layer
	"invest_platform/internal/utils"      // Cache, JWT and password helpers

	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
)

// CatalogService exposes the investment offerings
type CatalogService struct {
	store repository.Store
	rdb   *redis.Client // nil disables caching
}

// NewCatalogService builds a CatalogService. rdb may be nil.
func NewCatalogService(store repository.Store, rdb *redis.Client) *CatalogService {
	return &CatalogService{store: store, rdb: rdb}
}

// CategoryInfo is a category key with its display label
type CategoryInfo struct {
	Value domain.Category
	Label string
}

// Categories lists every instrument category
func (s *CatalogService) Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, CategoryInfo{Value: c, Label: c.Label()})
	}
	return out
}

// ListOfferings returns all offerings, or only those of category when it is non-empty
func (s *CatalogService) ListOfferings(ctx context.Context, category string) ([]domain.Investment, error) {
	cat := domain.Category(strings.TrimSpace(category))
	if cat != "" && !cat.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "Categoria inválida")
	}

	cacheKey := utils.OfferingsKey(string(cat))
	var cached []domain.Investment
	if found, err := utils.GetCache(ctx, s.rdb, cacheKey, &cached); err == nil && found {
		return cached, nil
	} else if err != nil {
		logrus.WithFields(logrus.Fields{"key": cacheKey, "error": err.Error()}).Warn("Cache read failed")
	}

	offerings, err := s.store.ListInvestments(ctx, cat)
	if err != nil {
		return nil, err
	}
	if offerings == nil {
		offerings = []domain.Investment{}
	}
	_ = utils.SetCache(ctx, s.rdb, cacheKey, offerings, utils.CacheTTL)
	return offerings, nil
}

// OfferingInput carries the fields of a new offering
type OfferingInput struct {
	Title         string
	Description   string
	Category      string
	MinimumAmount decimal.Decimal
	ReturnRate    decimal.Decimal
	TermMonths    int
	TaxExempt     bool
	TotalAmount   *decimal.Decimal
	MaturityDate  *time.Time
}

// CreateOffering adds an available offering to the catalog
func (s *CatalogService) CreateOffering(ctx context.Context, in OfferingInput) (*domain.Investment, error) {
	title := strings.TrimSpace(in.Title)
	category := domain.Category(strings.TrimSpace(in.Category))
	switch {
	case title == "":
		return nil, domain.Errorf(domain.ErrValidation, "Campo titulo é obrigatório")
	case !category.Valid():
		return nil, domain.Errorf(domain.ErrValidation, "Categoria inválida")
	case !in.MinimumAmount.IsPositive():
		return nil, domain.Errorf(domain.ErrValidation, "Valor mínimo deve ser positivo")
	case in.ReturnRate.IsNegative():
		return nil, domain.Errorf(domain.ErrValidation, "Taxa de retorno não pode ser negativa")
	case in.TermMonths <= 0:
		return nil, domain.Errorf(domain.ErrValidation, "Prazo deve ser positivo")
	case in.TotalAmount != nil && in.TotalAmount.LessThan(in.MinimumAmount):
		return nil, domain.Errorf(domain.ErrValidation, "Valor total menor que o valor mínimo")
	}

	inv := &domain.Investment{
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Category:      category,
		MinimumAmount: in.MinimumAmount.Round(2),
		ReturnRate:    in.ReturnRate.Round(2),
		TermMonths:    in.TermMonths,
		Status:        domain.StatusAvailable,
		TaxExempt:     in.TaxExempt,
		RaisedAmount:  decimal.Zero,
		MaturityDate:  in.MaturityDate,
	}
	if in.TotalAmount != nil {
		inv.TotalAmount = decimal.NewNullDecimal(in.TotalAmount.Round(2))
	}
	if err := s.store.CreateInvestment(ctx, inv); err != nil {
		return nil, err
	}
	invalidateOfferings(ctx, s.rdb, inv.Category)
	logrus.WithFields(logrus.Fields{
		"investment_id": inv.ID,
		"category":      inv.Category,
	}).Info("Investment created")
	return inv, nil
}

// invalidateOfferings drops the cached listings that include an offering of category
func invalidateOfferings(ctx context.Context, rdb *redis.Client, category domain.Category) {
	if err := utils.DeleteCache(ctx, rdb, utils.OfferingsKey(""), utils.OfferingsKey(string(category))); err != nil {
		logrus.WithFields(logrus.Fields{"category": category, "error": err.Error()}).Warn("Cache invalidation failed")
	}
}

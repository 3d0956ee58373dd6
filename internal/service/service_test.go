package service

import (
	"testing"

	"invest_platform/internal/config"
	"invest_platform/internal/repository"
	"invest_platform/internal/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

var testPayee = config.PixConfig{
	Key:       "pix@peerbr.com.br",
	PayeeName: "PeerBR Investimentos LTDA",
	City:      "SAO PAULO",
	CNPJ:      "12.345.678/0001-90",
	Bank:      "341 - Itaú Unibanco S.A.",
	Agency:    "1234",
	Account:   "12345-6",
}

type fixture struct {
	db       *gorm.DB
	store    *repository.GormStore
	identity *IdentityService
	catalog  *CatalogService
	ledger   *LedgerService
	admin    *AdminService
}

func newFixture(t *testing.T, rdb *redis.Client) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	store := repository.NewGormStore(gdb)
	return &fixture{
		db:       gdb,
		store:    store,
		identity: NewIdentityService(store, testSecret),
		catalog:  NewCatalogService(store, rdb),
		ledger:   NewLedgerService(store, rdb, testPayee),
		admin:    NewAdminService(store, rdb),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

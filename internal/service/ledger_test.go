package service

import (
	"context"
	"sync"
	"testing"

	"invest_platform/internal/domain"
	"invest_platform/internal/pix"
	"invest_platform/internal/testutil"
	"invest_platform/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertUntouched checks that a failed allocation left no trace.
func assertUntouched(t *testing.T, f *fixture, user *domain.User, inv *domain.Investment) {
	t.Helper()
	var reloadedUser domain.User
	testutil.Reload(t, f.db, &reloadedUser, user.ID)
	assert.True(t, reloadedUser.Balance.Equal(user.Balance), "balance changed to %s", reloadedUser.Balance)

	var reloadedInv domain.Investment
	testutil.Reload(t, f.db, &reloadedInv, inv.ID)
	assert.True(t, reloadedInv.RaisedAmount.Equal(inv.RaisedAmount), "raised changed to %s", reloadedInv.RaisedAmount)

	var allocations, txns int64
	require.NoError(t, f.db.Model(&domain.Allocation{}).Count(&allocations).Error)
	require.NoError(t, f.db.Model(&domain.Transaction{}).Where("kind = ?", domain.KindAllocation).Count(&txns).Error)
	assert.Zero(t, allocations)
	assert.Zero(t, txns)
}

func TestAllocateSuccess(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "222", "p", dec("1000"))
	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusAvailable)

	result, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("200"))
	require.NoError(t, err)
	assert.True(t, result.RemainingBalance.Equal(dec("800")), "remaining %s", result.RemainingBalance)
	assert.Equal(t, inv.ID, result.Allocation.InvestmentID)
	assert.True(t, result.Allocation.Amount.Equal(dec("200")))

	balance, err := f.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("800")))

	var reloaded domain.Investment
	testutil.Reload(t, f.db, &reloaded, inv.ID)
	assert.True(t, reloaded.RaisedAmount.Equal(dec("200")), "raised %s", reloaded.RaisedAmount)

	allocs, err := f.ledger.MyAllocations(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, inv.Title, allocs[0].Investment.Title)
	assert.True(t, allocs[0].Amount.Equal(dec("200")))

	txns, err := f.ledger.MyTransactions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, domain.KindAllocation, txns[0].Kind)
	assert.Equal(t, domain.TxApproved, txns[0].Status)
	assert.True(t, txns[0].Amount.Equal(dec("200")))
	assert.NotNil(t, txns[0].ApprovedAt)
	assert.Equal(t, "Investimento em "+inv.Title, txns[0].Description)
}

func TestAllocateRepeatedlyHasNoDrift(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "222", "p", dec("100"))
	inv := testutil.CreateInvestment(t, f.db, dec("0.10"), domain.StatusAvailable)

	for i := 0; i < 10; i++ {
		_, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("0.10"))
		require.NoError(t, err)
	}
	for i := 0; i < 7; i++ {
		_, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("0.30"))
		require.NoError(t, err)
	}

	balance, err := f.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("96.90")), "balance %s", balance)

	var reloaded domain.Investment
	testutil.Reload(t, f.db, &reloaded, inv.ID)
	assert.True(t, reloaded.RaisedAmount.Equal(dec("3.10")), "raised %s", reloaded.RaisedAmount)

	_, err = f.ledger.Allocate(ctx, user.ID, inv.ID, dec("96.91"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	// The exact remainder must still be spendable
	result, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("96.90"))
	require.NoError(t, err)
	assert.True(t, result.RemainingBalance.IsZero(), "remaining %s", result.RemainingBalance)
}

func TestAllocateSpendsFractionalBalanceExactly(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "222", "p", dec("0.30"))
	inv := testutil.CreateInvestment(t, f.db, dec("0.10"), domain.StatusAvailable)

	for _, want := range []string{"0.20", "0.10", "0"} {
		result, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("0.10"))
		require.NoError(t, err)
		assert.True(t, result.RemainingBalance.Equal(dec(want)), "remaining %s, want %s", result.RemainingBalance, want)
	}

	_, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("0.10"))
	assert.EqualError(t, err, "Saldo insuficiente")
}

func TestConcurrentAllocationsNeverOverdraw(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "222", "p", dec("100"))
	inv := testutil.CreateInvestment(t, f.db, dec("10"), domain.StatusAvailable)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("30")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, succeeded, 1)
	assert.LessOrEqual(t, succeeded, 3)

	var reloaded domain.User
	testutil.Reload(t, f.db, &reloaded, user.ID)
	assert.False(t, reloaded.Balance.IsNegative(), "balance %s", reloaded.Balance)
	expected := dec("100").Sub(dec("30").Mul(decimal.NewFromInt(int64(succeeded))))
	assert.True(t, reloaded.Balance.Equal(expected), "balance %s, want %s", reloaded.Balance, expected)

	var allocations, txns int64
	require.NoError(t, f.db.Model(&domain.Allocation{}).Where("user_id = ?", user.ID).Count(&allocations).Error)
	require.NoError(t, f.db.Model(&domain.Transaction{}).Where("user_id = ? AND kind = ?", user.ID, domain.KindAllocation).Count(&txns).Error)
	assert.EqualValues(t, succeeded, allocations)
	assert.EqualValues(t, succeeded, txns)
}

func TestAllocateBelowMinimumHasNoSideEffects(t *testing.T) {
	f := newFixture(t, nil)
	user := testutil.CreateUser(t, f.db, "222", "p", dec("1000"))
	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusAvailable)

	_, err := f.ledger.Allocate(context.Background(), user.ID, inv.ID, dec("49.99"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Valor mínimo para este investimento é R$ 50.00")
	assertUntouched(t, f, user, inv)
}

func TestAllocateRejectsFractionOfCent(t *testing.T) {
	f := newFixture(t, nil)
	user := testutil.CreateUser(t, f.db, "222", "p", dec("1000"))
	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusAvailable)

	_, err := f.ledger.Allocate(context.Background(), user.ID, inv.ID, dec("49.995"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Valor deve ter no máximo duas casas decimais")
	assertUntouched(t, f, user, inv)

	// Trailing zeros are still whole cents
	_, err = f.ledger.Allocate(context.Background(), user.ID, inv.ID, dec("50.000"))
	assert.NoError(t, err)
}

func TestAllocateUnavailableOfferingHasNoSideEffects(t *testing.T) {
	f := newFixture(t, nil)
	user := testutil.CreateUser(t, f.db, "222", "p", dec("1000"))
	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusExhausted)

	_, err := f.ledger.Allocate(context.Background(), user.ID, inv.ID, dec("100"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Investimento não está disponível")
	assertUntouched(t, f, user, inv)
}

func TestAllocateInsufficientBalanceHasNoSideEffects(t *testing.T) {
	f := newFixture(t, nil)
	user := testutil.CreateUser(t, f.db, "222", "p", dec("99.99"))
	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusAvailable)

	_, err := f.ledger.Allocate(context.Background(), user.ID, inv.ID, dec("100"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Saldo insuficiente")
	assertUntouched(t, f, user, inv)
}

func TestAllocateValidationOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "222", "p", dec("1000"))
	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusAvailable)

	_, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("0"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.Allocate(ctx, user.ID, inv.ID, dec("-5"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.Allocate(ctx, 999, inv.ID, dec("100"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "Usuário não encontrado")
	_, err = f.ledger.Allocate(ctx, user.ID, 999, dec("100"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "Investimento não encontrado")
}

// Deposits stay pending, so a user funded only by deposit requests cannot invest.
func TestDepositIsNotCredited(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user, err := f.identity.Register(ctx, RegisterInput{TaxID: "111", Email: "a@example.com", Name: "Ana", Password: "p"})
	require.NoError(t, err)
	_, _, err = f.identity.Authenticate(ctx, "111", "p")
	require.NoError(t, err)

	txn, err := f.ledger.RequestDeposit(ctx, user.ID, dec("100"))
	require.NoError(t, err)
	assert.Equal(t, domain.TxPending, txn.Status)
	assert.Equal(t, domain.KindDeposit, txn.Kind)
	assert.Equal(t, "Depósito de R$ 100.00", txn.Description)

	balance, err := f.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusAvailable)
	_, err = f.ledger.Allocate(ctx, user.ID, inv.ID, dec("100"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Saldo insuficiente")
}

func TestRequestDepositValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "111", "p", decimal.Zero)

	_, err := f.ledger.RequestDeposit(ctx, user.ID, dec("0"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.RequestDeposit(ctx, user.ID, dec("10.004"))
	assert.EqualError(t, err, "Valor deve ter no máximo duas casas decimais")
	_, err = f.ledger.RequestDeposit(ctx, 999, dec("10"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.RequestPixDeposit(ctx, user.ID, dec("-1"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPixDepositsAreDistinct(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "111", "p", decimal.Zero)

	first, err := f.ledger.RequestPixDeposit(ctx, user.ID, dec("150"))
	require.NoError(t, err)
	second, err := f.ledger.RequestPixDeposit(ctx, user.ID, dec("150"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Charge.Reference, second.Charge.Reference)
	assert.NotEqual(t, first.Transaction.ID, second.Transaction.ID)
	assert.True(t, pix.VerifyPayload(first.Charge.Payload))
	assert.NotEmpty(t, first.Charge.QRCodePNG)
	assert.Equal(t, testPayee, first.Payee)

	txns, err := f.ledger.MyTransactions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	for _, txn := range txns {
		assert.Equal(t, domain.TxPending, txn.Status)
		assert.Equal(t, domain.KindDeposit, txn.Kind)
		require.NotNil(t, txn.PixID)
		require.NotNil(t, txn.PixPayload)
	}
	assert.NotEqual(t, *txns[0].PixID, *txns[1].PixID)

	balance, err := f.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestBalanceCacheIsInvalidatedByAllocation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	f := newFixture(t, rdb)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "222", "p", dec("1000"))
	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusAvailable)

	balance, err := f.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("1000")))
	assert.True(t, mr.Exists(utils.BalanceKey(user.ID)))

	_, err = f.ledger.Allocate(ctx, user.ID, inv.ID, dec("250"))
	require.NoError(t, err)
	assert.False(t, mr.Exists(utils.BalanceKey(user.ID)))

	balance, err = f.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("750")), "balance %s", balance)
}

package service

import (
	"context"
	"testing"

	"invest_platform/internal/domain"
	"invest_platform/internal/repository"
	"invest_platform/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveDepositCreditsOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "111", "p", decimal.Zero)
	txn, err := f.ledger.RequestDeposit(ctx, user.ID, dec("100"))
	require.NoError(t, err)

	reviewed, err := f.admin.ReviewDeposit(ctx, txn.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TxApproved, reviewed.Status)
	assert.NotNil(t, reviewed.ApprovedAt)

	balance, err := f.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")))

	_, err = f.admin.ReviewDeposit(ctx, txn.ID, true)
	assert.ErrorIs(t, err, domain.ErrValidation)
	balance, err = f.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")))

	// Once approved, the deposit funds an allocation
	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusAvailable)
	result, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("100"))
	require.NoError(t, err)
	assert.True(t, result.RemainingBalance.IsZero())
}

func TestRejectDepositLeavesBalance(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "111", "p", dec("10"))
	txn, err := f.ledger.RequestDeposit(ctx, user.ID, dec("100"))
	require.NoError(t, err)

	reviewed, err := f.admin.ReviewDeposit(ctx, txn.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TxRejected, reviewed.Status)
	assert.Nil(t, reviewed.ApprovedAt)

	balance, err := f.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("10")))
}

func TestReviewDepositRejectsOtherTransactions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "111", "p", dec("500"))
	inv := testutil.CreateInvestment(t, f.db, dec("50"), domain.StatusAvailable)
	result, err := f.ledger.Allocate(ctx, user.ID, inv.ID, dec("100"))
	require.NoError(t, err)

	_, err = f.admin.ReviewDeposit(ctx, result.Transaction.ID, true)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.admin.ReviewDeposit(ctx, 999, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminListings(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "111", "p", decimal.Zero)
	b := testutil.CreateUser(t, f.db, "222", "p", decimal.Zero)
	testutil.CreateUser(t, f.db, "333", "p", decimal.Zero)
	for _, id := range []uint{a.ID, a.ID, b.ID} {
		_, err := f.ledger.RequestDeposit(ctx, id, dec("10"))
		require.NoError(t, err)
	}

	users, err := f.admin.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, users.Total)
	assert.Equal(t, 2, users.TotalPages)
	assert.Len(t, users.Items, 1)

	txns, err := f.admin.ListTransactions(ctx, repository.TransactionFilter{UserID: a.ID}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, txns.Total)
	assert.Len(t, txns.Items, 2)

	_, err = f.admin.ListTransactions(ctx, repository.TransactionFilter{Kind: "transfer"}, 1, 20)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPromoteAdmin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "111", "p", decimal.Zero)

	promoted, err := f.admin.PromoteAdmin(ctx, "111")
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	reloaded, err := f.store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, reloaded.Role)

	_, err = f.admin.PromoteAdmin(ctx, "111")
	assert.NoError(t, err)

	_, err = f.admin.PromoteAdmin(ctx, "000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryLabel(t *testing.T) {
	cases := map[Category]string{
		CategoryDebentures:           "Debentures",
		CategoryCRI:                  "Cri",
		CategoryNotasFiscais:         "Notas Fiscais",
		CategoryPrecatoriosMunicipal: "Precatorios Municipal",
	}
	for c, want := range cases {
		assert.Equal(t, want, c.Label(), string(c))
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("acoes").Valid())
	assert.False(t, Category("").Valid())
	assert.Len(t, Categories, 9)
}

func TestStatusAndKindValid(t *testing.T) {
	assert.True(t, StatusAvailable.Valid())
	assert.True(t, StatusExhausted.Valid())
	assert.False(t, InvestmentStatus("encerrado").Valid())

	assert.True(t, KindDeposit.Valid())
	assert.True(t, KindAllocation.Valid())
	assert.True(t, KindWithdrawal.Valid())
	assert.False(t, TransactionKind("transfer").Valid())

	assert.True(t, TxPending.Valid())
	assert.False(t, TransactionStatus("cancelado").Valid())
}

func TestEnumsMarshalStrictly(t *testing.T) {
	b, err := json.Marshal(struct {
		C Category          `json:"c"`
		S InvestmentStatus  `json:"s"`
		K TransactionKind   `json:"k"`
		T TransactionStatus `json:"t"`
	}{CategoryCRA, StatusExhausted, KindDeposit, TxRejected})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"c":"cra","s":"esgotado","k":"deposito","t":"rejeitado"}`, string(b))

	_, err = json.Marshal(Category("acoes"))
	assert.Error(t, err)
	_, err = json.Marshal(TransactionKind("transfer"))
	assert.Error(t, err)
}

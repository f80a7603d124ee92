package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

func TestCalculateBalance(t *testing.T) {
	type testCase struct {
		name string
		txs  []*transaction.Transaction
		want transaction.Balance
	}

	tests := []testCase{
		{
			name: "Empty",
			txs:  nil,
			want: balance("0", "0"),
		},
		{
			name: "IncomeOnly",
			txs: []*transaction.Transaction{
				{Type: transaction.TypeIncome, Value: dec("5000")},
				{Type: transaction.TypeIncome, Value: dec("0.50")},
			},
			want: balance("5000.50", "0"),
		},
		{
			name: "Mixed",
			txs: []*transaction.Transaction{
				{Type: transaction.TypeIncome, Value: dec("5000")},
				{Type: transaction.TypeOutcome, Value: dec("1200")},
				{Type: transaction.TypeOutcome, Value: dec("35.75")},
			},
			want: balance("5000", "1235.75"),
		},
		{
			name: "OverdrawnImport",
			txs: []*transaction.Transaction{
				{Type: transaction.TypeOutcome, Value: dec("10")},
			},
			want: balance("0", "10"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transaction.CalculateBalance(tt.txs)

			assert.True(t, tt.want.Income.Equal(got.Income), "income %s", got.Income)
			assert.True(t, tt.want.Outcome.Equal(got.Outcome), "outcome %s", got.Outcome)
			assert.True(t, tt.want.Total.Equal(got.Total), "total %s", got.Total)
			assert.True(t, got.Total.Equal(got.Income.Sub(got.Outcome)))
			assert.False(t, got.Income.IsNegative())
			assert.False(t, got.Outcome.IsNegative())
		})
	}
}

func TestType_Valid(t *testing.T) {
	assert.True(t, transaction.TypeIncome.Valid())
	assert.True(t, transaction.TypeOutcome.Valid())
	assert.False(t, transaction.Type("").Valid())
	assert.False(t, transaction.Type("Income").Valid())
}

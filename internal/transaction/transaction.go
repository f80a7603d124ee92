package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finances/internal/category"
)

// Type represents the direction of a transaction.
type Type string

const (
	TypeIncome  Type = "income"
	TypeOutcome Type = "outcome"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeOutcome
}

// Transaction represents a single income or outcome entry.
type Transaction struct {
	ID         uuid.UUID
	Title      string
	Type       Type
	Value      decimal.Decimal // always two fractional digits
	CategoryID uuid.UUID
	Category   *category.Category // Loaded via JOIN
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Balance is the net position derived from all transactions. It is never persisted.
type Balance struct {
	Income  decimal.Decimal
	Outcome decimal.Decimal
	Total   decimal.Decimal
}

// NewBalance derives Total from the income and outcome sums.
func NewBalance(income, outcome decimal.Decimal) Balance {
	return Balance{
		Income:  income,
		Outcome: outcome,
		Total:   income.Sub(outcome),
	}
}

// CalculateBalance sums the given transactions. An empty set yields a zero balance.
func CalculateBalance(txs []*Transaction) Balance {
	income := decimal.Zero
	outcome := decimal.Zero

	for _, tx := range txs {
		switch tx.Type {
		case TypeIncome:
			income = income.Add(tx.Value)
		case TypeOutcome:
			outcome = outcome.Add(tx.Value)
		}
	}

	return NewBalance(income, outcome)
}

package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

const dbTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func FormatValue(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// FormatSigned prefixes outcomes with a minus sign.
func FormatSigned(tx *transaction.Transaction) string {
	if tx.Type == transaction.TypeOutcome {
		return "-" + FormatValue(tx.Value)
	}

	return "+" + FormatValue(tx.Value)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func CategoryTitle(tx *transaction.Transaction) string {
	if tx.Category == nil {
		return ""
	}

	return tx.Category.Title
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

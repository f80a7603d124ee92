package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finances/internal/category"
	"github.com/MrJamesThe3rd/finances/internal/importer"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

type listerFunc func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)

func (f listerFunc) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	return f(ctx, filter)
}

func fixtures() []*transaction.Transaction {
	job := &category.Category{ID: uuid.New(), Title: "Job"}
	food := &category.Category{ID: uuid.New(), Title: "Food, drinks"}
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	return []*transaction.Transaction{
		{ID: uuid.New(), Title: "Salary", Type: transaction.TypeIncome, Value: decimal.RequireFromString("5000"), Category: job, CreatedAt: at},
		{ID: uuid.New(), Title: "Lunch", Type: transaction.TypeOutcome, Value: decimal.RequireFromString("12.5"), Category: food, CreatedAt: at},
	}
}

func TestService_Export(t *testing.T) {
	svc := NewService(listerFunc(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
		return fixtures(), nil
	}))

	var buf bytes.Buffer

	txs, err := svc.Export(context.Background(), transaction.ListFilter{}, &buf)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	want := "title,type,value,category\n" +
		"Salary,income,5000.00,Job\n" +
		"Lunch,outcome,12.50,\"Food, drinks\"\n"
	assert.Equal(t, want, buf.String())
}

func TestService_Export_RoundTrip(t *testing.T) {
	svc := NewService(listerFunc(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
		return fixtures(), nil
	}))

	var buf bytes.Buffer

	_, err := svc.Export(context.Background(), transaction.ListFilter{}, &buf)
	require.NoError(t, err)

	parsed, err := importer.NewParser(2).Parse(&buf)
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 2)
	assert.Zero(t, parsed.Skipped)
	assert.Equal(t, []string{"Job", "Food, drinks"}, parsed.Categories)
	assert.True(t, decimal.RequireFromString("12.50").Equal(parsed.Rows[1].Value))
}

func TestService_Export_ListError(t *testing.T) {
	errDB := errors.New("db down")
	svc := NewService(listerFunc(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
		return nil, errDB
	}))

	_, err := svc.Export(context.Background(), transaction.ListFilter{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errDB)
}

func TestService_ExportToDir(t *testing.T) {
	svc := NewService(listerFunc(func(context.Context, transaction.ListFilter) ([]*transaction.Transaction, error) {
		return fixtures(), nil
	}))
	svc.now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }

	dir := filepath.Join(t.TempDir(), "out")

	path, txs, err := svc.ExportToDir(context.Background(), transaction.ListFilter{}, dir)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, filepath.Join(dir, "transactions_20261017.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "title,type,value,category\n"))
}

func TestSummary(t *testing.T) {
	got := Summary(fixtures())

	assert.Equal(t,
		"* 2026-10-01 | Salary | +5000.00 | Job\n"+
			"* 2026-10-01 | Lunch | -12.50 | Food, drinks\n",
		got)
}

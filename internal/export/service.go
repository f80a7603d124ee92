package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

// Header matches the layout the importer reads, so an export can be imported back.
var Header = []string{"title", "type", "value", "category"}

type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Service writes transactions out as CSV.
type Service struct {
	transactions Lister
	now          func() time.Time
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions, now: time.Now}
}

// Export writes every transaction matching filter to w and returns them.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter, w io.Writer) ([]*transaction.Transaction, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		cat := ""
		if tx.Category != nil {
			cat = tx.Category.Title
		}

		if err := cw.Write([]string{tx.Title, string(tx.Type), tx.Value.StringFixed(2), cat}); err != nil {
			return nil, fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return txs, nil
}

// ExportToDir writes transactions_YYYYMMDD.csv into outputDir and returns its path.
func (s *Service) ExportToDir(ctx context.Context, filter transaction.ListFilter, outputDir string) (string, []*transaction.Transaction, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, Filename(s.now()))

	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	txs, err := s.Export(ctx, filter, f)
	if err != nil {
		return "", nil, err
	}

	if err := f.Close(); err != nil {
		return "", nil, fmt.Errorf("closing file: %w", err)
	}

	return path, txs, nil
}

func Filename(at time.Time) string {
	return fmt.Sprintf("transactions_%s.csv", at.Format("20060102"))
}

// Summary renders one line per transaction for display after an export.
func Summary(txs []*transaction.Transaction) string {
	var sb strings.Builder

	for _, tx := range txs {
		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		cat := ""
		if tx.Category != nil {
			cat = tx.Category.Title
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s | %s\n",
			tx.CreatedAt.Format("2006-01-02"), tx.Title, sign, tx.Value.StringFixed(2), cat)
	}

	return sb.String()
}

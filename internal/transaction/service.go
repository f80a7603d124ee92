package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finances/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	GetBalance(ctx context.Context) (Balance, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx is a unit of work: every write a workflow performs goes through one Tx
// and becomes visible only on Commit.
type Tx interface {
	FindCategoryByTitle(ctx context.Context, title string) (*category.Category, error)
	FindCategoriesByTitles(ctx context.Context, titles []string) ([]*category.Category, error)
	CreateCategories(ctx context.Context, cats []*category.Category) error

	GetBalance(ctx context.Context) (Balance, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error

	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// MaxValue is the first value that no longer fits NUMERIC(10, 2).
var MaxValue = decimal.New(1, 8)

var validate = validator.New(validator.WithRequiredStructEnabled())

type CreateParams struct {
	Title    string `validate:"required"`
	Value    decimal.Decimal
	Type     Type   `validate:"required,oneof=income outcome"`
	Category string `validate:"required"`
}

type ListFilter struct {
	Type      *Type
	StartDate *time.Time
	EndDate   *time.Time
}

func (p CreateParams) normalize() CreateParams {
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)
	p.Value = p.Value.Round(2)

	return p
}

func (p CreateParams) validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}

		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
		}

		return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(msgs, ", "))
	}

	if p.Value.IsNegative() {
		return fmt.Errorf("%w: value must not be negative", ErrInvalidParams)
	}

	if p.Value.GreaterThanOrEqual(MaxValue) {
		return fmt.Errorf("%w: value must be lower than %s", ErrInvalidParams, MaxValue)
	}

	return nil
}

// Create records a single transaction. The category is looked up by exact
// title and created when missing. An outcome larger than the current total is
// rejected with ErrInsufficientBalance and nothing is written.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	params = params.normalize()
	if err := params.validate(); err != nil {
		return nil, err
	}

	wtx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer wtx.Rollback()

	cat, err := resolveCategory(ctx, wtx, params.Category)
	if err != nil {
		return nil, err
	}

	balance, err := wtx.GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	if params.Type == TypeOutcome && params.Value.GreaterThan(balance.Total) {
		return nil, fmt.Errorf("%w: outcome of %s exceeds total of %s",
			ErrInsufficientBalance, params.Value.StringFixed(2), balance.Total.StringFixed(2))
	}

	tx := &Transaction{
		Title:      params.Title,
		Type:       params.Type,
		Value:      params.Value,
		CategoryID: cat.ID,
		Category:   cat,
	}
	if err := wtx.CreateTransactions(ctx, []*Transaction{tx}); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if err := wtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	return tx, nil
}

func resolveCategory(ctx context.Context, wtx Tx, title string) (*category.Category, error) {
	cat, err := wtx.FindCategoryByTitle(ctx, title)
	if err == nil {
		return cat, nil
	}

	if !errors.Is(err, category.ErrNotFound) {
		return nil, fmt.Errorf("find category: %w", err)
	}

	cat = category.New(title)
	if err := wtx.CreateCategories(ctx, []*category.Category{cat}); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return cat, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Balance(ctx context.Context) (Balance, error) {
	return s.repo.GetBalance(ctx)
}

// ImportParams is one parsed CSV row waiting for its category to be resolved.
type ImportParams struct {
	Title    string
	Type     Type
	Value    decimal.Decimal
	Category string
}

// Batch is the outcome of reading an import file: the pending rows and the
// ordered, duplicate-free category titles they reference.
type Batch struct {
	Rows       []ImportParams
	Categories []string
}

type ImportResult struct {
	Transactions  []*Transaction
	NewCategories []*category.Category
}

// CategoryTitles returns the distinct category titles of rows in first-seen order.
func CategoryTitles(rows []ImportParams) []string {
	seen := make(map[string]struct{}, len(rows))
	titles := make([]string, 0, len(rows))

	for _, r := range rows {
		if _, ok := seen[r.Category]; ok {
			continue
		}

		seen[r.Category] = struct{}{}
		titles = append(titles, r.Category)
	}

	return titles
}

// ImportBatch persists a parsed batch atomically. Categories missing from the
// store are created in one round trip, then every row is linked to its
// category by exact title and inserted in one round trip. Imports skip the
// balance check on purpose.
func (s *Service) ImportBatch(ctx context.Context, batch Batch) (*ImportResult, error) {
	if len(batch.Rows) == 0 {
		return &ImportResult{}, nil
	}

	titles := batch.Categories
	if titles == nil {
		titles = CategoryTitles(batch.Rows)
	}

	wtx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer wtx.Rollback()

	existing, err := wtx.FindCategoriesByTitles(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}

	var newCats []*category.Category

	for _, title := range titles {
		if _, found := category.FindByTitle(existing, title); found {
			continue
		}

		newCats = append(newCats, category.New(title))
	}

	if len(newCats) > 0 {
		if err := wtx.CreateCategories(ctx, newCats); err != nil {
			return nil, fmt.Errorf("create categories: %w", err)
		}
	}

	pool := append(append([]*category.Category{}, newCats...), existing...)

	txs := make([]*Transaction, len(batch.Rows))
	for i, r := range batch.Rows {
		cat, ok := category.FindByTitle(pool, r.Category)
		if !ok {
			return nil, fmt.Errorf("%w: %q (row %q)", ErrUnresolvedCategory, r.Category, r.Title)
		}

		txs[i] = &Transaction{
			Title:      r.Title,
			Type:       r.Type,
			Value:      r.Value,
			CategoryID: cat.ID,
			Category:   cat,
		}
	}

	if err := wtx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := wtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Transactions: txs, NewCategories: newCats}, nil
}

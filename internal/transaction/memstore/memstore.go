// Package memstore is an in-memory transaction.Repository for tests. Writes
// are staged per Tx and applied on Commit. Unlike the Postgres store it takes
// no ledger lock.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finances/internal/category"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

type Store struct {
	mu         sync.Mutex
	categories []*category.Category
	txs        []*transaction.Transaction
}

func New() *Store {
	return &Store{}
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, nil
		}
	}

	return nil, transaction.ErrNotFound
}

// ListTransactions ignores the filter.
func (s *Store) ListTransactions(_ context.Context, _ transaction.ListFilter) ([]*transaction.Transaction, error) {
	return s.Transactions(), nil
}

func (s *Store) GetBalance(_ context.Context) (transaction.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return transaction.CalculateBalance(s.txs), nil
}

func (s *Store) ListCategories(_ context.Context) ([]*category.Category, error) {
	cats := s.Categories()
	slices.SortStableFunc(cats, func(a, b *category.Category) int {
		return strings.Compare(a.Title, b.Title)
	})

	return cats, nil
}

func (s *Store) Begin(_ context.Context) (transaction.Tx, error) {
	return &memTx{store: s}, nil
}

// Transactions returns the committed transactions in insertion order.
func (s *Store) Transactions() []*transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.txs)
}

// Categories returns the committed categories in insertion order.
func (s *Store) Categories() []*category.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.categories)
}

// CategoryCount reports how many committed categories carry title.
func (s *Store) CategoryCount(title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, c := range s.categories {
		if c.Title == title {
			n++
		}
	}

	return n
}

type memTx struct {
	store *Store
	cats  []*category.Category
	txs   []*transaction.Transaction
}

func (t *memTx) snapshot() ([]*category.Category, []*transaction.Transaction) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	return slices.Concat(t.store.categories, t.cats), slices.Concat(t.store.txs, t.txs)
}

func (t *memTx) FindCategoryByTitle(_ context.Context, title string) (*category.Category, error) {
	cats, _ := t.snapshot()
	if c, ok := category.FindByTitle(cats, title); ok {
		return c, nil
	}

	return nil, category.ErrNotFound
}

func (t *memTx) FindCategoriesByTitles(_ context.Context, titles []string) ([]*category.Category, error) {
	cats, _ := t.snapshot()

	var found []*category.Category

	for _, c := range cats {
		if slices.Contains(titles, c.Title) {
			found = append(found, c)
		}
	}

	return found, nil
}

func (t *memTx) CreateCategories(_ context.Context, cats []*category.Category) error {
	t.cats = append(t.cats, cats...)
	return nil
}

func (t *memTx) GetBalance(_ context.Context) (transaction.Balance, error) {
	_, txs := t.snapshot()
	return transaction.CalculateBalance(txs), nil
}

func (t *memTx) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		tx.ID = uuid.New()
	}

	t.txs = append(t.txs, txs...)

	return nil
}

func (t *memTx) Commit() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	t.store.categories = append(t.store.categories, t.cats...)
	t.store.txs = append(t.store.txs, t.txs...)
	t.cats, t.txs = nil, nil

	return nil
}

func (t *memTx) Rollback() error {
	t.cats, t.txs = nil, nil
	return nil
}

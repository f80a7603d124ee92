package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finances/internal/category"
	categoryStore "github.com/MrJamesThe3rd/finances/internal/category/store"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

// insertChunkSize keeps multi-row inserts well below the Postgres limit of
// 65535 bind parameters.
const insertChunkSize = 1000

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row joined with its category.
// Expected column order: id, title, type, value, category_id, created_at, updated_at,
// category title, category created_at, category updated_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx      transaction.Transaction
		typeStr string
		cat     category.Category
	)

	if err := s.Scan(
		&tx.ID, &tx.Title, &typeStr, &tx.Value, &tx.CategoryID, &tx.CreatedAt, &tx.UpdatedAt,
		&cat.Title, &cat.CreatedAt, &cat.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	cat.ID = tx.CategoryID
	tx.Category = &cat

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.title, t.type, t.value, t.category_id, t.created_at, t.updated_at,
	c.title, c.created_at, c.updated_at
`

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.created_at ASC, t.title ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) GetBalance(ctx context.Context) (transaction.Balance, error) {
	return getBalance(ctx, s.db)
}

const balanceQuery = `
	SELECT
		COALESCE(SUM(value) FILTER (WHERE type = 'income'), 0),
		COALESCE(SUM(value) FILTER (WHERE type = 'outcome'), 0)
	FROM transactions
`

func getBalance(ctx context.Context, q categoryStore.Querier) (transaction.Balance, error) {
	var income, outcome decimal.Decimal
	if err := q.QueryRowContext(ctx, balanceQuery).Scan(&income, &outcome); err != nil {
		return transaction.Balance{}, fmt.Errorf("getting balance: %w", err)
	}

	return transaction.NewBalance(income, outcome), nil
}

func lockKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))

	return int64(h.Sum64())
}

// ledgerLockKey serialises every write workflow, so the balance read by a
// creation cannot go stale before its insert and concurrent imports cannot
// create the same category twice.
var ledgerLockKey = lockKey("finances:ledger")

type writeTx struct {
	*categoryStore.Store

	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (transaction.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", ledgerLockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring ledger lock: %w", err)
	}

	return &writeTx{Store: categoryStore.New(dbTx), tx: dbTx}, nil
}

func (wtx *writeTx) Commit() error   { return wtx.tx.Commit() }
func (wtx *writeTx) Rollback() error { return wtx.tx.Rollback() }

func (wtx *writeTx) GetBalance(ctx context.Context) (transaction.Balance, error) {
	return getBalance(ctx, wtx.tx)
}

// CreateTransactions inserts txs in as few statements as possible and fills in
// the generated identifiers and timestamps.
func (wtx *writeTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for start := 0; start < len(txs); start += insertChunkSize {
		end := min(start+insertChunkSize, len(txs))

		if err := wtx.insertTransactions(ctx, txs[start:end]); err != nil {
			return err
		}
	}

	return nil
}

func (wtx *writeTx) insertTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	const cols = 5

	var sb strings.Builder
	sb.WriteString(`INSERT INTO transactions (id, title, type, value, category_id, created_at, updated_at) VALUES `)

	args := make([]any, 0, len(txs)*cols)
	byID := make(map[uuid.UUID]*transaction.Transaction, len(txs))

	for i, tx := range txs {
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}

		if i > 0 {
			sb.WriteString(", ")
		}

		n := i * cols
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, NOW(), NOW())", n+1, n+2, n+3, n+4, n+5)

		args = append(args, tx.ID, tx.Title, tx.Type, tx.Value, tx.CategoryID)
		byID[tx.ID] = tx
	}

	sb.WriteString(` RETURNING id, created_at, updated_at`)

	rows, err := wtx.tx.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("creating transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                   uuid.UUID
			createdAt, updatedAt time.Time
		)

		if err := rows.Scan(&id, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("scanning created transaction: %w", err)
		}

		if tx, ok := byID[id]; ok {
			tx.CreatedAt = createdAt
			tx.UpdatedAt = updatedAt
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating created transactions: %w", err)
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finances/internal/category"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so the same queries run
// standalone or inside a write transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db Querier
}

func New(db Querier) *Store {
	return &Store{db: db}
}

const selectCategoryColumns = `id, title, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category
	if err := s.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories ORDER BY title ASC, created_at ASC`

	return s.queryCategories(ctx, query)
}

// FindCategoryByTitle returns the oldest category with exactly this title.
func (s *Store) FindCategoryByTitle(ctx context.Context, title string) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories
		WHERE title = $1
		ORDER BY created_at ASC
		LIMIT 1`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("finding category: %w", err)
	}

	return c, nil
}

func (s *Store) FindCategoriesByTitles(ctx context.Context, titles []string) ([]*category.Category, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	query := `SELECT ` + selectCategoryColumns + `
		FROM categories
		WHERE title = ANY($1)
		ORDER BY created_at ASC`

	return s.queryCategories(ctx, query, titles)
}

// CreateCategories inserts all categories with a single statement and fills in
// the store-generated timestamps.
func (s *Store) CreateCategories(ctx context.Context, cats []*category.Category) error {
	if len(cats) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO categories (id, title, created_at, updated_at) VALUES `)

	args := make([]any, 0, len(cats)*2)
	byID := make(map[uuid.UUID]*category.Category, len(cats))

	for i, c := range cats {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}

		if i > 0 {
			sb.WriteString(", ")
		}

		fmt.Fprintf(&sb, "($%d, $%d, NOW(), NOW())", i*2+1, i*2+2)

		args = append(args, c.ID, c.Title)
		byID[c.ID] = c
	}

	sb.WriteString(` RETURNING id, created_at, updated_at`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("creating categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                   uuid.UUID
			createdAt, updatedAt time.Time
		)

		if err := rows.Scan(&id, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("scanning created category: %w", err)
		}

		if c, ok := byID[id]; ok {
			c.CreatedAt = createdAt
			c.UpdatedAt = updatedAt
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating created categories: %w", err)
	}

	return nil
}

func (s *Store) queryCategories(ctx context.Context, query string, args ...any) ([]*category.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return cats, nil
}

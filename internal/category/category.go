package category

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("category not found")

// Category is a named grouping for transactions. Titles are expected to be
// unique but nothing in the schema enforces it.
type Category struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns an unsaved category with a fresh identifier.
func New(title string) *Category {
	return &Category{ID: uuid.New(), Title: title}
}

// FindByTitle returns the first category in pool whose title matches exactly.
func FindByTitle(pool []*Category, title string) (*Category, bool) {
	for _, c := range pool {
		if c.Title == title {
			return c, true
		}
	}

	return nil, false
}

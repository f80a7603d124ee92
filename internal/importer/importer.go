package importer

import (
	"context"

	"github.com/MrJamesThe3rd/finances/internal/category"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

//go:generate mockgen -source=importer.go -destination=importer_mock.go -package=importer
type BatchImporter interface {
	ImportBatch(ctx context.Context, batch transaction.Batch) (*transaction.ImportResult, error)
}

type CategoryLister interface {
	List(ctx context.Context) ([]*category.Category, error)
}

// Result describes a committed import. CleanupErr is set when the rows were
// stored but the source file could not be removed afterwards.
type Result struct {
	Transactions      []*transaction.Transaction
	NewCategories     []*category.Category
	Skipped           int
	SimilarCategories []SimilarCategory
	CleanupErr        error
}

// SimilarCategory flags a category created by an import whose title is close
// to one that already existed, usually a typo in the source file.
type SimilarCategory struct {
	Title    string
	Existing string
	Distance int
}

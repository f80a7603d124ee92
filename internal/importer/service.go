package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type Config struct {
	FromLine   int
	Similarity float64
}

type Service struct {
	parser     *Parser
	txs        BatchImporter
	categories CategoryLister
	log        zerolog.Logger
	similarity float64
}

func NewService(txs BatchImporter, categories CategoryLister, log zerolog.Logger, cfg Config) *Service {
	return &Service{
		parser:     NewParser(cfg.FromLine),
		txs:        txs,
		categories: categories,
		log:        log.With().Str("component", "importer").Logger(),
		similarity: cfg.Similarity,
	}
}

// ImportFile parses the CSV at path and stores every valid row in one unit of
// work. The file is removed once the import commits; if that removal fails the
// import still succeeds and Result.CleanupErr is set. A failed import leaves
// the file untouched.
func (s *Service) ImportFile(ctx context.Context, path string) (*Result, error) {
	log := s.log.With().Str("file", filepath.Base(path)).Logger()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}

	parsed, err := s.parser.Parse(f)
	f.Close()

	if err != nil {
		log.Error().Err(err).Msg("failed to parse import file")
		return nil, err
	}

	imported, err := s.txs.ImportBatch(ctx, parsed.Batch)
	if err != nil {
		log.Error().Err(err).Int("rows", len(parsed.Rows)).Msg("import failed")
		return nil, err
	}

	result := &Result{
		Transactions:  imported.Transactions,
		NewCategories: imported.NewCategories,
		Skipped:       parsed.Skipped,
	}

	if len(imported.NewCategories) > 0 {
		all, err := s.categories.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("could not load categories for similarity check")
		} else {
			result.SimilarCategories = findSimilar(imported.NewCategories, all, s.similarity)
		}
	}

	for _, sc := range result.SimilarCategories {
		log.Warn().Str("category", sc.Title).Str("existing", sc.Existing).Msg("new category looks like an existing one")
	}

	if err := os.Remove(path); err != nil {
		result.CleanupErr = fmt.Errorf("failed to remove import file: %w", err)
		log.Warn().Err(err).Msg("import committed but source file was not removed")
	}

	log.Info().
		Str("charset", parsed.Charset).
		Int("imported", len(result.Transactions)).
		Int("skipped", result.Skipped).
		Int("repaired", parsed.Repaired).
		Int("new_categories", len(result.NewCategories)).
		Msg("csv imported")

	return result, nil
}

// Stage copies r into a new file under dir so it can be handed to ImportFile,
// which consumes the file.
func Stage(r io.Reader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	f, err := os.CreateTemp(dir, "import-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())

		return "", fmt.Errorf("failed to stage upload: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to stage upload: %w", err)
	}

	return f.Name(), nil
}

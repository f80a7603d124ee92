package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/finances/internal/category"
	categoryStore "github.com/MrJamesThe3rd/finances/internal/category/store"
	"github.com/MrJamesThe3rd/finances/internal/config"
	"github.com/MrJamesThe3rd/finances/internal/database"
	"github.com/MrJamesThe3rd/finances/internal/export"
	financesHttp "github.com/MrJamesThe3rd/finances/internal/http"
	categoryHandler "github.com/MrJamesThe3rd/finances/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/finances/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/finances/internal/http/importcsv"
	txHandler "github.com/MrJamesThe3rd/finances/internal/http/transaction"
	"github.com/MrJamesThe3rd/finances/internal/importer"
	"github.com/MrJamesThe3rd/finances/internal/logger"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
	txStore "github.com/MrJamesThe3rd/finances/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}

		log.Info().Msg("database migrated")
	}

	var (
		transactionService = transaction.NewService(txStore.New(db))
		categoryService    = category.NewService(categoryStore.New(db))
		importService      = importer.NewService(transactionService, categoryService, log, importer.Config{
			FromLine:   cfg.Import.FromLine,
			Similarity: cfg.Import.Similarity,
		})
		exportService = export.NewService(transactionService)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService)
		importH      = importHandler.NewHandler(importService, cfg.Import.UploadDir, cfg.Import.MaxUploadSize)
		exportH      = exportHandler.NewHandler(exportService)
		categoryH    = categoryHandler.NewHandler(categoryService)
	)

	router := financesHttp.New(log, cfg.CORS.AllowedOrigins, transactionH, importH, exportH, categoryH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", srv.Addr).Str("app", cfg.App.Name).Msg("starting server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

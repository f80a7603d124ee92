package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/finances/internal/http/category"
	"github.com/MrJamesThe3rd/finances/internal/http/export"
	"github.com/MrJamesThe3rd/finances/internal/http/importcsv"
	"github.com/MrJamesThe3rd/finances/internal/http/transaction"
)

func New(
	log zerolog.Logger,
	allowedOrigins []string,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	categoriesV1 *category.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Route("/import", importV1.Routes)
			r.Route("/export", exportV1.Routes)
			transactionsV1.Routes(r)
		})

		r.Route("/categories", categoriesV1.Routes)
	})

	return router
}

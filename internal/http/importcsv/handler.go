package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	httptx "github.com/MrJamesThe3rd/finances/internal/http/transaction"
	"github.com/MrJamesThe3rd/finances/internal/importer"
	"github.com/MrJamesThe3rd/finances/internal/logger"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	uploadDir string
	maxSize   int64
}

func NewHandler(importSvc *importer.Service, uploadDir string, maxSize int64) *Handler {
	return &Handler{
		importSvc: importSvc,
		uploadDir: uploadDir,
		maxSize:   maxSize,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type similarCategoryResponse struct {
	Title    string `json:"title"`
	Existing string `json:"existing"`
}

type importResponse struct {
	Imported          int                          `json:"imported"`
	Skipped           int                          `json:"skipped"`
	Transactions      []httptx.TransactionResponse `json:"transactions"`
	NewCategories     []httptx.CategoryResponse    `json:"new_categories"`
	SimilarCategories []similarCategoryResponse    `json:"similar_categories"`
	CleanupError      string                       `json:"cleanup_error,omitempty"`
}

func toImportResponse(result *importer.Result) importResponse {
	resp := importResponse{
		Imported:          len(result.Transactions),
		Skipped:           result.Skipped,
		Transactions:      httptx.ToResponseList(result.Transactions),
		NewCategories:     make([]httptx.CategoryResponse, len(result.NewCategories)),
		SimilarCategories: make([]similarCategoryResponse, len(result.SimilarCategories)),
	}

	for i, c := range result.NewCategories {
		resp.NewCategories[i] = httptx.ToCategoryResponse(c)
	}

	for i, sc := range result.SimilarCategories {
		resp.SimilarCategories[i] = similarCategoryResponse{Title: sc.Title, Existing: sc.Existing}
	}

	if result.CleanupErr != nil {
		resp.CleanupError = result.CleanupErr.Error()
	}

	return resp
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}

		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)

		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := importer.Stage(file, h.uploadDir)
	if err != nil {
		log.Error().Err(err).Msg("failed to stage upload")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	result, err := h.importSvc.ImportFile(r.Context(), path)
	if err != nil {
		// The staged copy is ours; nothing else will retry it.
		_ = os.Remove(path)

		if errors.Is(err, transaction.ErrUnresolvedCategory) || errors.Is(err, importer.ErrMalformedCSV) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		log.Error().Err(err).Msg("failed to import csv")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toImportResponse(result)); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

package category

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finances/internal/category"
	httptx "github.com/MrJamesThe3rd/finances/internal/http/transaction"
	"github.com/MrJamesThe3rd/finances/internal/logger"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to list categories")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]httptx.CategoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = httptx.ToCategoryResponse(c)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

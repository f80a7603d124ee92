package export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finances/internal/export"
	"github.com/MrJamesThe3rd/finances/internal/http/query"
	"github.com/MrJamesThe3rd/finances/internal/logger"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if _, err := h.svc.Export(r.Context(), filter, &buf); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to export transactions")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))

	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to write export")
	}
}

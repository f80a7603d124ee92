package transaction

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finances/internal/http/query"
	"github.com/MrJamesThe3rd/finances/internal/logger"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(middleware.AllowContentType("application/json")).Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/balance", h.balance)
	r.Get("/{id}", h.get)
}

type createTransactionRequest struct {
	Title    string           `json:"title"`
	Value    decimal.Decimal  `json:"value"`
	Type     transaction.Type `json:"type"`
	Category string           `json:"category"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Title:    req.Title,
		Value:    req.Value,
		Type:     req.Type,
		Category: req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrInvalidParams), errors.Is(err, transaction.ErrInsufficientBalance):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			logger.FromContext(r.Context()).Error().Err(err).Msg("failed to create transaction")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(ToResponse(tx)); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to list transactions")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	balance, err := h.svc.Balance(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to get balance")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := listResponse{
		Transactions: ToResponseList(txs),
		Balance:      ToBalanceResponse(balance),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Balance(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to get balance")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToBalanceResponse(b)); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to get transaction")
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponse(tx)); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

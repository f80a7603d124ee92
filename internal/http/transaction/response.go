package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finances/internal/category"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

type TransactionResponse struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	Type       transaction.Type  `json:"type"`
	Value      string            `json:"value"`
	CategoryID uuid.UUID         `json:"category_id"`
	Category   *CategoryResponse `json:"category,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type CategoryResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type BalanceResponse struct {
	Income  string `json:"income"`
	Outcome string `json:"outcome"`
	Total   string `json:"total"`
}

type listResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Balance      BalanceResponse       `json:"balance"`
}

func ToResponse(tx *transaction.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:         tx.ID,
		Title:      tx.Title,
		Type:       tx.Type,
		Value:      tx.Value.StringFixed(2),
		CategoryID: tx.CategoryID,
		CreatedAt:  tx.CreatedAt,
		UpdatedAt:  tx.UpdatedAt,
	}

	if tx.Category != nil {
		resp.Category = new(ToCategoryResponse(tx.Category))
	}

	return resp
}

func ToResponseList(txs []*transaction.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}

func ToCategoryResponse(c *category.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Title: c.Title}
}

func ToBalanceResponse(b transaction.Balance) BalanceResponse {
	return BalanceResponse{
		Income:  b.Income.StringFixed(2),
		Outcome: b.Outcome.StringFixed(2),
		Total:   b.Total.StringFixed(2),
	}
}

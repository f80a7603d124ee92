package transaction

import "errors"

var (
	ErrNotFound            = errors.New("transaction not found")
	ErrInvalidParams       = errors.New("invalid transaction")
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrUnresolvedCategory means an imported row referenced a category that
	// was neither found nor created during reconciliation.
	ErrUnresolvedCategory = errors.New("unresolved category")
)

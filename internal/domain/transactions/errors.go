package transactions

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("transaction category not found")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrAmountNotPositive   = errors.New("amount must be positive")
)

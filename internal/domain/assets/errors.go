package assets

import "errors"

var (
	ErrAssetNotFound     = errors.New("asset not found")
	ErrCategoryNotFound  = errors.New("asset category not found")
	ErrAssetDisposed     = errors.New("asset is disposed")
	ErrNegativeBalance   = errors.New("operation would drive asset value negative")
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrAmountNegative    = errors.New("amount must not be negative")
	ErrUnknownCurrency   = errors.New("unknown currency code")
	ErrCategoryDepth     = errors.New("categories nest at most two levels")
)

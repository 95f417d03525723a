package transactions

import "context"

type Repository interface {
	CreateTransaction(ctx context.Context, transaction *Transaction) error
	GetTransaction(ctx context.Context, transactionID string) (*Transaction, error)
	ListTransactions(ctx context.Context, familyID string, filter ListFilter) ([]Transaction, error)
	UpdateTransaction(ctx context.Context, transaction *Transaction) error
	DeleteTransaction(ctx context.Context, familyID, transactionID string) (bool, error)

	ListCategories(ctx context.Context, familyID string) ([]Category, error)
	GetCategory(ctx context.Context, familyID, categoryID string) (*Category, error)
	CreateCategories(ctx context.Context, categories []Category) error
}

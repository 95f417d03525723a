package transactions

import (
	"context"
	"errors"

	transactionsdomain "family-ledger-go/internal/domain/transactions"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *transactionsdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, transactionID string) (*transactionsdomain.Transaction, error) {
	var transaction transactionsdomain.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transactionsdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, familyID string, filter transactionsdomain.ListFilter) ([]transactionsdomain.Transaction, error) {
	query := r.db.WithContext(ctx).Where("family_id = ?", familyID)

	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	var list []transactionsdomain.Transaction
	if err := query.Order("date desc, created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, transaction *transactionsdomain.Transaction) error {
	return r.db.WithContext(ctx).Model(&transactionsdomain.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]any{
			"category_id": transaction.CategoryID,
			"amount":      transaction.Amount,
			"date":        transaction.Date,
			"notes":       transaction.Notes,
		}).Error
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, familyID, transactionID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&transactionsdomain.Transaction{}, "id = ? AND family_id = ?", transactionID, familyID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context, familyID string) ([]transactionsdomain.Category, error) {
	var list []transactionsdomain.Category
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("type asc, sort_order asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, familyID, categoryID string) (*transactionsdomain.Category, error) {
	var category transactionsdomain.Category
	if err := r.db.WithContext(ctx).Where("id = ? AND family_id = ?", categoryID, familyID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transactionsdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) CreateCategories(ctx context.Context, categories []transactionsdomain.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&categories).Error
}

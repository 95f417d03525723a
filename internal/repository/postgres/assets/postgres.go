package assets

import (
	"context"
	"errors"

	assetsdomain "family-ledger-go/internal/domain/assets"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(assetsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateAsset(ctx context.Context, asset *assetsdomain.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *PostgresRepository) GetAsset(ctx context.Context, assetID string) (*assetsdomain.Asset, error) {
	var asset assetsdomain.Asset
	if err := r.db.WithContext(ctx).Where("id = ?", assetID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assetsdomain.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func (r *PostgresRepository) ListAssets(ctx context.Context, familyID string) ([]assetsdomain.Asset, error) {
	var list []assetsdomain.Asset
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) UpdateAsset(ctx context.Context, asset *assetsdomain.Asset) error {
	return r.db.WithContext(ctx).Model(&assetsdomain.Asset{}).
		Where("id = ?", asset.ID).
		Updates(map[string]any{
			"category_id":   asset.CategoryID,
			"holder_id":     asset.HolderID,
			"name":          asset.Name,
			"current_value": asset.CurrentValue,
			"purchase_date": asset.PurchaseDate,
			"status":        asset.Status,
			"attributes":    asset.Attributes,
			"notes":         asset.Notes,
		}).Error
}

func (r *PostgresRepository) DeleteAsset(ctx context.Context, familyID, assetID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&assetsdomain.Asset{}, "id = ? AND family_id = ?", assetID, familyID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) AppendChange(ctx context.Context, change *assetsdomain.Change) error {
	return r.db.WithContext(ctx).Create(change).Error
}

func (r *PostgresRepository) ListChanges(ctx context.Context, assetID string) ([]assetsdomain.Change, error) {
	var list []assetsdomain.Change
	if err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("date asc, created_at asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context, familyID string) ([]assetsdomain.Category, error) {
	var list []assetsdomain.Category
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("sort_order asc, created_at asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, familyID, categoryID string) (*assetsdomain.Category, error) {
	var category assetsdomain.Category
	if err := r.db.WithContext(ctx).Where("id = ? AND family_id = ?", categoryID, familyID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, assetsdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) CreateCategories(ctx context.Context, categories []assetsdomain.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&categories).Error
}

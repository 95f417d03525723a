package assets

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, assetID string) (*Asset, error)
	ListAssets(ctx context.Context, familyID string) ([]Asset, error)
	UpdateAsset(ctx context.Context, asset *Asset) error
	DeleteAsset(ctx context.Context, familyID, assetID string) (bool, error)

	AppendChange(ctx context.Context, change *Change) error
	ListChanges(ctx context.Context, assetID string) ([]Change, error)

	ListCategories(ctx context.Context, familyID string) ([]Category, error)
	GetCategory(ctx context.Context, familyID, categoryID string) (*Category, error)
	CreateCategories(ctx context.Context, categories []Category) error
}

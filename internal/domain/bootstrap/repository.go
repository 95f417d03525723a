package bootstrap

import (
	"context"

	"family-ledger-go/internal/domain/assets"
	"family-ledger-go/internal/domain/family"
	"family-ledger-go/internal/domain/transactions"
	"family-ledger-go/internal/domain/user"
)

type Repository interface {
	GetUser(ctx context.Context, userID string) (*user.User, error)
	ListUsersWithoutMembership(ctx context.Context) ([]user.User, error)
	SetCurrentFamily(ctx context.Context, userID string, familyID *string) error

	GetFamily(ctx context.Context, familyID string) (*family.Family, error)
	GetAnyMembership(ctx context.Context, userID string) (*family.Membership, error)

	ListOrphanAssets(ctx context.Context) ([]assets.Asset, error)
	ListOrphanAssetsByHolder(ctx context.Context, holderID string) ([]assets.Asset, error)
	SetAssetFamily(ctx context.Context, assetID, familyID string) error

	ListOrphanTransactions(ctx context.Context) ([]transactions.Transaction, error)
	ListOrphanTransactionsByMember(ctx context.Context, memberID string) ([]transactions.Transaction, error)
	SetTransactionFamily(ctx context.Context, transactionID, familyID string) error
}

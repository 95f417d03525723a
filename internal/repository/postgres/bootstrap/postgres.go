package bootstrap

import (
	"context"
	"errors"

	assetsdomain "family-ledger-go/internal/domain/assets"
	familydomain "family-ledger-go/internal/domain/family"
	transactionsdomain "family-ledger-go/internal/domain/transactions"
	userdomain "family-ledger-go/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetUser(ctx context.Context, userID string) (*userdomain.User, error) {
	var u userdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) ListUsersWithoutMembership(ctx context.Context) ([]userdomain.User, error) {
	var users []userdomain.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("left join family_members on family_members.user_id = users.id").
		Where("family_members.user_id IS NULL").
		Order("users.created_at asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) SetCurrentFamily(ctx context.Context, userID string, familyID *string) error {
	return r.db.WithContext(ctx).Model(&userdomain.User{}).
		Where("id = ?", userID).
		Update("current_family_id", familyID).Error
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetAnyMembership(ctx context.Context, userID string) (*familydomain.Membership, error) {
	var member familydomain.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("joined_at asc").
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListOrphanAssets(ctx context.Context) ([]assetsdomain.Asset, error) {
	var list []assetsdomain.Asset
	if err := r.db.WithContext(ctx).Where("family_id IS NULL").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) ListOrphanAssetsByHolder(ctx context.Context, holderID string) ([]assetsdomain.Asset, error) {
	var list []assetsdomain.Asset
	if err := r.db.WithContext(ctx).Where("family_id IS NULL AND holder_id = ?", holderID).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) SetAssetFamily(ctx context.Context, assetID, familyID string) error {
	return r.db.WithContext(ctx).Model(&assetsdomain.Asset{}).
		Where("id = ?", assetID).
		Update("family_id", familyID).Error
}

func (r *PostgresRepository) ListOrphanTransactions(ctx context.Context) ([]transactionsdomain.Transaction, error) {
	var list []transactionsdomain.Transaction
	if err := r.db.WithContext(ctx).Where("family_id IS NULL").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) ListOrphanTransactionsByMember(ctx context.Context, memberID string) ([]transactionsdomain.Transaction, error) {
	var list []transactionsdomain.Transaction
	if err := r.db.WithContext(ctx).Where("family_id IS NULL AND member_id = ?", memberID).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) SetTransactionFamily(ctx context.Context, transactionID, familyID string) error {
	return r.db.WithContext(ctx).Model(&transactionsdomain.Transaction{}).
		Where("id = ?", transactionID).
		Update("family_id", familyID).Error
}

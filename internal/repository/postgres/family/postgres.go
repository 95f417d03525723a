package family

import (
	"context"
	"errors"
	"time"

	assetsdomain "family-ledger-go/internal/domain/assets"
	familydomain "family-ledger-go/internal/domain/family"
	"family-ledger-go/internal/domain/role"
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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	if err := r.db.WithContext(ctx).Create(family).Error; err != nil {
		// A concurrent allocation of the same invite code hits the unique
		// index even though IsCodeTaken said the code was free.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return familydomain.ErrCodeGenerationFailed
		}
		return err
	}
	return nil
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

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrInviteCodeNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) ListFamiliesByUser(ctx context.Context, userID string) ([]familydomain.Family, error) {
	var families []familydomain.Family
	if err := r.db.WithContext(ctx).
		Table("families").
		Joins("join family_members on family_members.family_id = families.id").
		Where("family_members.user_id = ?", userID).
		Order("family_members.joined_at asc").
		Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

func (r *PostgresRepository) UpdateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Model(&familydomain.Family{}).
		Where("id = ?", family.ID).
		Updates(map[string]any{
			"name":        family.Name,
			"description": family.Description,
		}).Error
}

func (r *PostgresRepository) UpdateInviteCode(ctx context.Context, familyID, code string) error {
	err := r.db.WithContext(ctx).Model(&familydomain.Family{}).
		Where("id = ?", familyID).
		Update("invite_code", code).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return familydomain.ErrCodeGenerationFailed
	}
	return err
}

func (r *PostgresRepository) DeleteFamily(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.Family{}, "id = ?", familyID).Error
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *familydomain.Membership) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		// The composite primary key catches the duplicate-join race the
		// service's membership pre-check cannot see.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return familydomain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, familyID, userID string) (*familydomain.Membership, error) {
	var member familydomain.Membership
	if err := r.db.WithContext(ctx).Where("family_id = ? AND user_id = ?", familyID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID string) ([]familydomain.MemberProfile, error) {
	type memberRow struct {
		UserID   string    `gorm:"column:user_id"`
		Name     string    `gorm:"column:name"`
		Email    *string   `gorm:"column:email"`
		Role     role.Role `gorm:"column:role"`
		JoinedAt time.Time `gorm:"column:joined_at"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("family_members").
		Select("family_members.user_id, users.name, users.email, family_members.role, family_members.joined_at").
		Joins("left join users on users.id = family_members.user_id").
		Where("family_members.family_id = ?", familyID).
		Order("family_members.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]familydomain.MemberProfile, 0, len(rows))
	for _, row := range rows {
		members = append(members, familydomain.MemberProfile{
			UserID:   row.UserID,
			Name:     row.Name,
			Email:    row.Email,
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
		})
	}
	return members, nil
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, familyID, userID string, newRole role.Role) error {
	return r.db.WithContext(ctx).Model(&familydomain.Membership{}).
		Where("family_id = ? AND user_id = ?", familyID, userID).
		Update("role", newRole).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, familyID, userID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.Membership{}, "family_id = ? AND user_id = ?", familyID, userID).Error
}

func (r *PostgresRepository) DeleteMembersByFamily(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Where("family_id = ?", familyID).Delete(&familydomain.Membership{}).Error
}

func (r *PostgresRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userdomain.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetCurrentFamily(ctx context.Context, userID string) (*string, error) {
	var u userdomain.User
	if err := r.db.WithContext(ctx).Select("current_family_id").Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrUserNotFound
		}
		return nil, err
	}
	return u.CurrentFamilyID, nil
}

func (r *PostgresRepository) SetCurrentFamily(ctx context.Context, userID string, familyID *string) error {
	return r.db.WithContext(ctx).Model(&userdomain.User{}).
		Where("id = ?", userID).
		Update("current_family_id", familyID).Error
}

func (r *PostgresRepository) ClearCurrentFamilyRefs(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Model(&userdomain.User{}).
		Where("current_family_id = ?", familyID).
		Update("current_family_id", nil).Error
}

func (r *PostgresRepository) SeedDefaultCategories(ctx context.Context, familyID string) error {
	assetCategories := assetsdomain.DefaultCategorySeed(familyID)
	if len(assetCategories) > 0 {
		if err := r.db.WithContext(ctx).Create(&assetCategories).Error; err != nil {
			return err
		}
	}

	transactionCategories := transactionsdomain.DefaultCategorySeed(familyID)
	if len(transactionCategories) > 0 {
		if err := r.db.WithContext(ctx).Create(&transactionCategories).Error; err != nil {
			return err
		}
	}

	return nil
}

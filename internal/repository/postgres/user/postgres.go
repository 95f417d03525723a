package user

import (
	"context"
	"errors"

	userdomain "family-ledger-go/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*userdomain.User, error) {
	var u userdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Upsert inserts the user or refreshes name/email on conflict. It never
// touches current_family_id: that pointer is owned by family switching and
// the bootstrap initializer.
func (r *PostgresRepository) Upsert(ctx context.Context, u *userdomain.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
	}).Create(u).Error
}

func (r *PostgresRepository) SetCurrentFamily(ctx context.Context, userID string, familyID *string) error {
	return r.db.WithContext(ctx).Model(&userdomain.User{}).
		Where("id = ?", userID).
		Update("current_family_id", familyID).Error
}

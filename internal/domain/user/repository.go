package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	Upsert(ctx context.Context, user *User) error
	SetCurrentFamily(ctx context.Context, userID string, familyID *string) error
}

package family

import (
	"context"

	"family-ledger-go/internal/domain/role"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateFamily(ctx context.Context, family *Family) error
	GetFamily(ctx context.Context, familyID string) (*Family, error)
	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	ListFamiliesByUser(ctx context.Context, userID string) ([]Family, error)
	UpdateFamily(ctx context.Context, family *Family) error
	UpdateInviteCode(ctx context.Context, familyID, code string) error
	DeleteFamily(ctx context.Context, familyID string) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)

	AddMember(ctx context.Context, member *Membership) error
	GetMember(ctx context.Context, familyID, userID string) (*Membership, error)
	ListMembers(ctx context.Context, familyID string) ([]MemberProfile, error)
	UpdateMemberRole(ctx context.Context, familyID, userID string, newRole role.Role) error
	DeleteMember(ctx context.Context, familyID, userID string) error
	DeleteMembersByFamily(ctx context.Context, familyID string) error

	UserExists(ctx context.Context, userID string) (bool, error)
	GetCurrentFamily(ctx context.Context, userID string) (*string, error)
	SetCurrentFamily(ctx context.Context, userID string, familyID *string) error
	ClearCurrentFamilyRefs(ctx context.Context, familyID string) error

	SeedDefaultCategories(ctx context.Context, familyID string) error
}

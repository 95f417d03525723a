package family

import (
	"context"
	"errors"

	"family-ledger-go/internal/domain/role"
)

// Access is the capability snapshot for one user in one family. It is
// computed once per request and handed to downstream services so every
// decision is made against the same membership row.
type Access struct {
	Role      role.Role
	CanEdit   bool
	CanManage bool
	IsOwner   bool
}

// Guard evaluates membership-based access. A missing membership fails every
// check with ErrNotFamilyMember; the guard never downgrades a request.
type Guard struct {
	repo Repository
}

func NewGuard(repo Repository) *Guard {
	return &Guard{repo: repo}
}

func (g *Guard) Access(ctx context.Context, userID, familyID string) (Access, error) {
	member, err := g.repo.GetMember(ctx, familyID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return Access{}, ErrNotFamilyMember
		}
		return Access{}, err
	}
	return accessFor(member.Role), nil
}

// RequireEdit allows every role except viewer.
func (g *Guard) RequireEdit(ctx context.Context, userID, familyID string) (Access, error) {
	access, err := g.Access(ctx, userID, familyID)
	if err != nil {
		return Access{}, err
	}
	if !access.CanEdit {
		return Access{}, ErrEditForbidden
	}
	return access, nil
}

// RequireManage allows admin and owner.
func (g *Guard) RequireManage(ctx context.Context, userID, familyID string) (Access, error) {
	access, err := g.Access(ctx, userID, familyID)
	if err != nil {
		return Access{}, err
	}
	if !access.CanManage {
		return Access{}, ErrManageRequired
	}
	return access, nil
}

// RequireOwner allows the owner only.
func (g *Guard) RequireOwner(ctx context.Context, userID, familyID string) (Access, error) {
	access, err := g.Access(ctx, userID, familyID)
	if err != nil {
		return Access{}, err
	}
	if !access.IsOwner {
		return Access{}, ErrOwnerRequired
	}
	return access, nil
}

func accessFor(r role.Role) Access {
	return Access{
		Role:      r,
		CanEdit:   r.CanEdit(),
		CanManage: r.CanManage(),
		IsOwner:   r.IsOwner(),
	}
}

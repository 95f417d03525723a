package family

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"family-ledger-go/internal/domain/role"
	"github.com/google/uuid"
)

const (
	inviteCodeLength   = 8
	inviteCodeAttempts = 10
)

type Service struct {
	repo  Repository
	guard *Guard
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, guard: NewGuard(repo)}
}

// Guard exposes the access evaluator backed by this service's repository.
func (s *Service) Guard() *Guard {
	return s.guard
}

// CreateFamily allocates the family, its owner membership, the creator's
// current-family pointer, and the default category trees in one
// transaction. A crash between the steps must never leave an ownerless
// family or a dangling pointer.
func (s *Service) CreateFamily(ctx context.Context, creatorID, name string, description *string) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueInviteCode(ctx, tx)
		if err != nil {
			return err
		}

		fam := Family{
			ID:          uuid.NewString(),
			Name:        name,
			Description: description,
			CreatedBy:   creatorID,
			InviteCode:  code,
		}
		if err := tx.CreateFamily(ctx, &fam); err != nil {
			return err
		}

		member := Membership{
			FamilyID: fam.ID,
			UserID:   creatorID,
			Role:     role.Owner,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		if err := tx.SetCurrentFamily(ctx, creatorID, &fam.ID); err != nil {
			return err
		}

		if err := tx.SeedDefaultCategories(ctx, fam.ID); err != nil {
			return err
		}

		result = fam
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) ListFamilies(ctx context.Context, userID string) ([]Family, error) {
	return s.repo.ListFamiliesByUser(ctx, userID)
}

func (s *Service) GetFamily(ctx context.Context, familyID, userID string) (*FamilyWithMembers, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}

	fam, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, familyID)
	if err != nil {
		return nil, err
	}

	return &FamilyWithMembers{Family: *fam, Members: members}, nil
}

func (s *Service) UpdateFamily(ctx context.Context, familyID, userID, name string, description *string) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if _, err := s.guard.RequireManage(ctx, userID, familyID); err != nil {
		return nil, err
	}

	fam, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	fam.Name = name
	if description != nil {
		fam.Description = description
	}
	if err := s.repo.UpdateFamily(ctx, fam); err != nil {
		return nil, err
	}

	return fam, nil
}

// DeleteFamily removes the family, its memberships, and any current-family
// pointers at it. Owner only.
func (s *Service) DeleteFamily(ctx context.Context, familyID, userID string) error {
	if _, err := s.guard.RequireOwner(ctx, userID, familyID); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.ClearCurrentFamilyRefs(ctx, familyID); err != nil {
			return err
		}
		if err := tx.DeleteMembersByFamily(ctx, familyID); err != nil {
			return err
		}
		return tx.DeleteFamily(ctx, familyID)
	})
}

// AddMember adds an existing user to the family. Admin or owner only.
// The owner role is never assignable: a family has exactly one owner, the
// one created with it.
func (s *Service) AddMember(ctx context.Context, familyID, actorID, targetUserID string, newRole role.Role) (*Membership, error) {
	if _, err := s.guard.RequireManage(ctx, actorID, familyID); err != nil {
		return nil, err
	}

	if !newRole.Valid() {
		return nil, fmt.Errorf("invalid role")
	}
	if newRole.IsOwner() {
		return nil, ErrCannotAssignOwner
	}

	exists, err := s.repo.UserExists(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	if _, err := s.repo.GetMember(ctx, familyID, targetUserID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	member := Membership{
		FamilyID:  familyID,
		UserID:    targetUserID,
		Role:      newRole,
		InvitedBy: &actorID,
	}
	if err := s.repo.AddMember(ctx, &member); err != nil {
		return nil, err
	}

	return &member, nil
}

// RemoveMember enforces the rule table: the actor must manage, the owner is
// never removable, and only the owner may remove an admin.
func (s *Service) RemoveMember(ctx context.Context, familyID, actorID, targetUserID string) error {
	access, err := s.guard.RequireManage(ctx, actorID, familyID)
	if err != nil {
		return err
	}

	target, err := s.repo.GetMember(ctx, familyID, targetUserID)
	if err != nil {
		return err
	}

	if target.Role.IsOwner() {
		return ErrCannotRemoveOwner
	}
	if target.Role == role.Admin && !access.IsOwner {
		return ErrOnlyOwnerRemovesAdmin
	}

	return s.repo.DeleteMember(ctx, familyID, targetUserID)
}

// UpdateMemberRole is owner-only. The owner's own role is immutable and the
// owner role cannot be granted, so the single-owner invariant holds across
// any sequence of role updates.
func (s *Service) UpdateMemberRole(ctx context.Context, familyID, actorID, targetUserID string, newRole role.Role) error {
	if _, err := s.guard.RequireOwner(ctx, actorID, familyID); err != nil {
		return err
	}

	if !newRole.Valid() {
		return fmt.Errorf("invalid role")
	}
	if newRole.IsOwner() {
		return ErrCannotAssignOwner
	}

	target, err := s.repo.GetMember(ctx, familyID, targetUserID)
	if err != nil {
		return err
	}
	if target.Role.IsOwner() {
		return ErrOwnerRoleImmutable
	}

	return s.repo.UpdateMemberRole(ctx, familyID, targetUserID, newRole)
}

// JoinByInviteCode self-joins the caller as a member. The caller's
// current-family pointer is set only if it was unset.
func (s *Service) JoinByInviteCode(ctx context.Context, userID, code string) (*Membership, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}

	var result Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		fam, err := tx.GetFamilyByCode(ctx, code)
		if err != nil {
			return err
		}

		if _, err := tx.GetMember(ctx, fam.ID, userID); err == nil {
			return ErrAlreadyMember
		} else if !errors.Is(err, ErrMemberNotFound) {
			return err
		}

		member := Membership{
			FamilyID: fam.ID,
			UserID:   userID,
			Role:     role.Member,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		current, err := tx.GetCurrentFamily(ctx, userID)
		if err != nil {
			return err
		}
		if current == nil {
			if err := tx.SetCurrentFamily(ctx, userID, &fam.ID); err != nil {
				return err
			}
		}

		result = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// SwitchFamily overwrites the caller's current-family pointer. This is a
// last-write-wins default with no version check across concurrent sessions.
func (s *Service) SwitchFamily(ctx context.Context, userID, familyID string) error {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return err
	}
	return s.repo.SetCurrentFamily(ctx, userID, &familyID)
}

// RegenerateInviteCode swaps the code. Existing memberships are unaffected;
// only future joins via the old code stop working.
func (s *Service) RegenerateInviteCode(ctx context.Context, familyID, userID string) (string, error) {
	if _, err := s.guard.RequireManage(ctx, userID, familyID); err != nil {
		return "", err
	}

	if _, err := s.repo.GetFamily(ctx, familyID); err != nil {
		return "", err
	}

	code, err := generateUniqueInviteCode(ctx, s.repo)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateInviteCode(ctx, familyID, code); err != nil {
		return "", err
	}

	return code, nil
}

func generateUniqueInviteCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		code, err := generateInviteCode(inviteCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func generateInviteCode(length int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}

// Package bootstrap backfills the family model onto accounts and records
// that predate it: users without a family get a default one, and orphaned
// assets and transactions get their owner's family. Every entry point is
// idempotent so the routines can run on every deploy.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"family-ledger-go/internal/domain/family"
	"family-ledger-go/pkg/logger"
)

type Service struct {
	repo     Repository
	families *family.Service
	log      logger.Logger
}

func NewService(repo Repository, families *family.Service, log logger.Logger) *Service {
	return &Service{repo: repo, families: families, log: log}
}

// CreateDefaultFamilyForUser resolves the user to exactly one family:
// the current-family pointer if it resolves, else any existing membership
// (adopted as current), else a freshly created default family. Re-running
// it never creates a second family for an already-resolved user.
func (s *Service) CreateDefaultFamilyForUser(ctx context.Context, userID string) (*family.Family, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.CurrentFamilyID != nil {
		fam, err := s.repo.GetFamily(ctx, *u.CurrentFamilyID)
		if err == nil {
			return fam, nil
		}
		// A stale pointer at a deleted family falls through to the
		// membership scan.
		if !errors.Is(err, family.ErrFamilyNotFound) {
			return nil, err
		}
	}

	membership, err := s.repo.GetAnyMembership(ctx, userID)
	if err == nil {
		if err := s.repo.SetCurrentFamily(ctx, userID, &membership.FamilyID); err != nil {
			return nil, err
		}
		return s.repo.GetFamily(ctx, membership.FamilyID)
	}
	if !errors.Is(err, family.ErrMemberNotFound) {
		return nil, err
	}

	name := "My Family"
	if u.Name != "" {
		name = fmt.Sprintf("%s's Family", u.Name)
	}
	description := "Default family"
	return s.families.CreateFamily(ctx, userID, name, &description)
}

// InitializeAllUsers gives every membership-less user a default family.
// Best-effort batch: a failure on one user is logged and skipped, never
// aborting the run. Returns the number of users initialized.
func (s *Service) InitializeAllUsers(ctx context.Context) (int, error) {
	users, err := s.repo.ListUsersWithoutMembership(ctx)
	if err != nil {
		return 0, err
	}

	s.log.Info("bootstrap: initializing users without family", "count", len(users))

	initialized := 0
	for _, u := range users {
		if _, err := s.CreateDefaultFamilyForUser(ctx, u.ID); err != nil {
			s.log.InternalError("bootstrap: default family creation failed", err, "user_id", u.ID)
			continue
		}
		initialized++
	}

	return initialized, nil
}

// MigrateOrphanData backfills the family reference onto assets and
// transactions whose owning user already has a family. After one pass no
// row matches the orphan predicate anymore, so a re-run is a no-op.
func (s *Service) MigrateOrphanData(ctx context.Context) (int, error) {
	migrated := 0

	orphanAssets, err := s.repo.ListOrphanAssets(ctx)
	if err != nil {
		return 0, err
	}
	for _, asset := range orphanAssets {
		holder, err := s.repo.GetUser(ctx, asset.HolderID)
		if err != nil {
			s.log.BusinessError("bootstrap: orphan asset holder lookup failed", err, "asset_id", asset.ID)
			continue
		}
		if holder.CurrentFamilyID == nil {
			continue
		}
		if err := s.repo.SetAssetFamily(ctx, asset.ID, *holder.CurrentFamilyID); err != nil {
			s.log.InternalError("bootstrap: orphan asset migration failed", err, "asset_id", asset.ID)
			continue
		}
		migrated++
	}

	orphanTransactions, err := s.repo.ListOrphanTransactions(ctx)
	if err != nil {
		return migrated, err
	}
	for _, transaction := range orphanTransactions {
		member, err := s.repo.GetUser(ctx, transaction.MemberID)
		if err != nil {
			s.log.BusinessError("bootstrap: orphan transaction member lookup failed", err, "transaction_id", transaction.ID)
			continue
		}
		if member.CurrentFamilyID == nil {
			continue
		}
		if err := s.repo.SetTransactionFamily(ctx, transaction.ID, *member.CurrentFamilyID); err != nil {
			s.log.InternalError("bootstrap: orphan transaction migration failed", err, "transaction_id", transaction.ID)
			continue
		}
		migrated++
	}

	s.log.Info("bootstrap: orphan data migrated", "count", migrated)
	return migrated, nil
}

// MigrateUserDataToFamily ensures the user has a family, then backfills
// only that user's own orphan rows into it.
func (s *Service) MigrateUserDataToFamily(ctx context.Context, userID string) error {
	fam, err := s.CreateDefaultFamilyForUser(ctx, userID)
	if err != nil {
		return err
	}

	orphanAssets, err := s.repo.ListOrphanAssetsByHolder(ctx, userID)
	if err != nil {
		return err
	}
	for _, asset := range orphanAssets {
		if err := s.repo.SetAssetFamily(ctx, asset.ID, fam.ID); err != nil {
			return err
		}
	}

	orphanTransactions, err := s.repo.ListOrphanTransactionsByMember(ctx, userID)
	if err != nil {
		return err
	}
	for _, transaction := range orphanTransactions {
		if err := s.repo.SetTransactionFamily(ctx, transaction.ID, fam.ID); err != nil {
			return err
		}
	}

	s.log.Info("bootstrap: user data migrated", "user_id", userID, "family_id", fam.ID,
		"assets", len(orphanAssets), "transactions", len(orphanTransactions))
	return nil
}

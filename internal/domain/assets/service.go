package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"family-ledger-go/internal/domain/family"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo  Repository
	guard *family.Guard
}

func NewService(repo Repository, guard *family.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

func (s *Service) CreateAsset(ctx context.Context, familyID, userID string, input CreateAssetInput) (*Asset, error) {
	if _, err := s.guard.RequireEdit(ctx, userID, familyID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if !KnownCurrency(currency) {
		return nil, ErrUnknownCurrency
	}
	if input.InitialValue.IsNegative() {
		return nil, ErrAmountNegative
	}

	if _, err := s.repo.GetCategory(ctx, familyID, input.CategoryID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = StatusActive
	}
	if status != StatusActive && status != StatusPending {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	current := input.InitialValue
	if input.CurrentValue != nil {
		if input.CurrentValue.IsNegative() {
			return nil, ErrAmountNegative
		}
		current = *input.CurrentValue
	}

	asset := Asset{
		ID:           uuid.NewString(),
		FamilyID:     &familyID,
		CategoryID:   input.CategoryID,
		HolderID:     input.HolderID,
		Name:         name,
		InitialValue: input.InitialValue,
		CurrentValue: current,
		Currency:     currency,
		PurchaseDate: input.PurchaseDate,
		Status:       status,
		Attributes:   input.Attributes,
		Notes:        input.Notes,
	}
	if err := s.repo.CreateAsset(ctx, &asset); err != nil {
		return nil, err
	}

	return &asset, nil
}

func (s *Service) ListAssets(ctx context.Context, familyID, userID string) ([]Asset, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}
	return s.repo.ListAssets(ctx, familyID)
}

func (s *Service) GetAsset(ctx context.Context, familyID, userID, assetID string) (*Asset, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}
	return s.getFamilyAsset(ctx, s.repo, familyID, assetID)
}

// UpdateAsset applies plain field edits. When the edit changes
// currentValue, a valuation_adjust entry is appended in the same
// transaction as the value write.
func (s *Service) UpdateAsset(ctx context.Context, familyID, userID, assetID string, input UpdateAssetInput) (*Asset, error) {
	if _, err := s.guard.RequireEdit(ctx, userID, familyID); err != nil {
		return nil, err
	}

	var result Asset
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		asset, err := s.getFamilyAsset(ctx, tx, familyID, assetID)
		if err != nil {
			return err
		}
		if asset.Status == StatusDisposed {
			return ErrAssetDisposed
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return fmt.Errorf("name is required")
			}
			asset.Name = name
		}
		if input.CategoryID != nil {
			if _, err := tx.GetCategory(ctx, familyID, *input.CategoryID); err != nil {
				return err
			}
			asset.CategoryID = *input.CategoryID
		}
		if input.HolderID != nil {
			asset.HolderID = *input.HolderID
		}
		if input.PurchaseDate != nil {
			asset.PurchaseDate = *input.PurchaseDate
		}
		if input.Attributes != nil {
			asset.Attributes = input.Attributes
		}
		if input.Notes != nil {
			asset.Notes = input.Notes
		}

		var change *Change
		if input.CurrentValue != nil && !input.CurrentValue.Equal(asset.CurrentValue) {
			if input.CurrentValue.IsNegative() {
				return ErrAmountNegative
			}
			change = valuationAdjustChange(asset, *input.CurrentValue, time.Now().UTC(), nil)
			change.ID = uuid.NewString()
			change.AssetID = asset.ID
			asset.CurrentValue = *input.CurrentValue
		}

		if err := tx.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		if change != nil {
			if err := tx.AppendChange(ctx, change); err != nil {
				return err
			}
		}

		result = *asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) DeleteAsset(ctx context.Context, familyID, userID, assetID string) error {
	if _, err := s.guard.RequireEdit(ctx, userID, familyID); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteAsset(ctx, familyID, assetID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAssetNotFound
	}
	return nil
}

func (s *Service) ListChanges(ctx context.Context, familyID, userID, assetID string) ([]Change, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}
	if _, err := s.getFamilyAsset(ctx, s.repo, familyID, assetID); err != nil {
		return nil, err
	}
	return s.repo.ListChanges(ctx, assetID)
}

// RecordBuy increases the asset's value by amount.
func (s *Service) RecordBuy(ctx context.Context, familyID, userID, assetID string, amount decimal.Decimal, date time.Time, notes *string) (*Change, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	return s.applyChange(ctx, familyID, userID, assetID, func(asset *Asset) (*Change, error) {
		return &Change{
			Type:        ChangeBuy,
			Amount:      amount,
			BeforeValue: asset.CurrentValue,
			AfterValue:  asset.CurrentValue.Add(amount),
			Date:        date,
			Notes:       notes,
		}, nil
	})
}

// RecordSell decreases the asset's value by amount. ProfitLoss is recorded
// as zero: there is no cost-basis tracking, so a sale's gain is not
// computable from the ledger.
func (s *Service) RecordSell(ctx context.Context, familyID, userID, assetID string, amount decimal.Decimal, date time.Time, notes *string) (*Change, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	return s.applyChange(ctx, familyID, userID, assetID, func(asset *Asset) (*Change, error) {
		after := asset.CurrentValue.Sub(amount)
		if after.IsNegative() {
			return nil, ErrNegativeBalance
		}
		zero := decimal.Zero
		return &Change{
			Type:           ChangeSell,
			Amount:         amount,
			BeforeValue:    asset.CurrentValue,
			AfterValue:     after,
			ProfitLoss:     decimal.NullDecimal{Decimal: zero, Valid: true},
			ProfitLossRate: decimal.NullDecimal{Decimal: zero, Valid: true},
			Date:           date,
			Notes:          notes,
		}, nil
	})
}

func (s *Service) RecordTransferIn(ctx context.Context, familyID, userID, assetID string, amount decimal.Decimal, relatedAssetID *string, date time.Time, notes *string) (*Change, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	return s.applyChange(ctx, familyID, userID, assetID, func(asset *Asset) (*Change, error) {
		return &Change{
			Type:           ChangeTransferIn,
			Amount:         amount,
			BeforeValue:    asset.CurrentValue,
			AfterValue:     asset.CurrentValue.Add(amount),
			RelatedAssetID: relatedAssetID,
			Date:           date,
			Notes:          notes,
		}, nil
	})
}

func (s *Service) RecordTransferOut(ctx context.Context, familyID, userID, assetID string, amount decimal.Decimal, relatedAssetID *string, date time.Time, notes *string) (*Change, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	return s.applyChange(ctx, familyID, userID, assetID, func(asset *Asset) (*Change, error) {
		after := asset.CurrentValue.Sub(amount)
		if after.IsNegative() {
			return nil, ErrNegativeBalance
		}
		return &Change{
			Type:           ChangeTransferOut,
			Amount:         amount,
			BeforeValue:    asset.CurrentValue,
			AfterValue:     after,
			RelatedAssetID: relatedAssetID,
			Date:           date,
			Notes:          notes,
		}, nil
	})
}

// RecordValueChange revalues the asset to newValue and records the
// profit/loss against the previous value.
func (s *Service) RecordValueChange(ctx context.Context, familyID, userID, assetID string, newValue decimal.Decimal, date time.Time, notes *string) (*Change, error) {
	if newValue.IsNegative() {
		return nil, ErrAmountNegative
	}
	return s.applyChange(ctx, familyID, userID, assetID, func(asset *Asset) (*Change, error) {
		return valuationAdjustChange(asset, newValue, date, notes), nil
	})
}

// RecordDepreciation writes the asset down by amount, mirroring a valuation
// adjustment's profit/loss fields.
func (s *Service) RecordDepreciation(ctx context.Context, familyID, userID, assetID string, amount decimal.Decimal, date time.Time, notes *string) (*Change, error) {
	if amount.IsNegative() {
		return nil, ErrAmountNegative
	}
	return s.applyChange(ctx, familyID, userID, assetID, func(asset *Asset) (*Change, error) {
		after := asset.CurrentValue.Sub(amount)
		loss := after.Sub(asset.CurrentValue)
		return &Change{
			Type:           ChangeDepreciation,
			Amount:         amount,
			BeforeValue:    asset.CurrentValue,
			AfterValue:     after,
			ProfitLoss:     decimal.NullDecimal{Decimal: loss, Valid: true},
			ProfitLossRate: decimal.NullDecimal{Decimal: profitLossRate(loss, asset.CurrentValue), Valid: true},
			Date:           date,
			Notes:          notes,
		}, nil
	})
}

// Dispose is terminal: the value drops to zero, the status flips to
// disposed, and every later mutating operation on the asset is rejected.
func (s *Service) Dispose(ctx context.Context, familyID, userID, assetID string, disposeValue decimal.Decimal, date time.Time, notes *string) (*Change, error) {
	if disposeValue.IsNegative() {
		return nil, ErrAmountNegative
	}
	return s.applyChange(ctx, familyID, userID, assetID, func(asset *Asset) (*Change, error) {
		pl := disposeValue.Sub(asset.CurrentValue)
		change := &Change{
			Type:           ChangeDispose,
			Amount:         disposeValue,
			BeforeValue:    asset.CurrentValue,
			AfterValue:     decimal.Zero,
			ProfitLoss:     decimal.NullDecimal{Decimal: pl, Valid: true},
			ProfitLossRate: decimal.NullDecimal{Decimal: profitLossRate(pl, asset.CurrentValue), Valid: true},
			Date:           date,
			Notes:          notes,
		}
		asset.Status = StatusDisposed
		return change, nil
	})
}

func (s *Service) ListCategories(ctx context.Context, familyID, userID string) ([]Category, error) {
	if _, err := s.guard.Access(ctx, userID, familyID); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, familyID)
}

func (s *Service) CreateCategory(ctx context.Context, familyID, userID string, input CreateCategoryInput) (*Category, error) {
	if _, err := s.guard.RequireEdit(ctx, userID, familyID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if input.ParentID != nil {
		parent, err := s.repo.GetCategory(ctx, familyID, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, ErrCategoryDepth
		}
	}

	category := Category{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Name:      name,
		ParentID:  input.ParentID,
		Icon:      input.Icon,
		Color:     input.Color,
		SortOrder: input.SortOrder,
	}
	if err := s.repo.CreateCategories(ctx, []Category{category}); err != nil {
		return nil, err
	}

	return &category, nil
}

// applyChange runs one ledger mutation as a single unit: the value write
// and the change append commit together or not at all. Disposed assets
// reject every mutation.
func (s *Service) applyChange(ctx context.Context, familyID, userID, assetID string, build func(asset *Asset) (*Change, error)) (*Change, error) {
	if _, err := s.guard.RequireEdit(ctx, userID, familyID); err != nil {
		return nil, err
	}

	var result Change
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		asset, err := s.getFamilyAsset(ctx, tx, familyID, assetID)
		if err != nil {
			return err
		}
		if asset.Status == StatusDisposed {
			return ErrAssetDisposed
		}

		change, err := build(asset)
		if err != nil {
			return err
		}
		change.ID = uuid.NewString()
		change.AssetID = asset.ID
		if change.Date.IsZero() {
			change.Date = time.Now().UTC()
		}

		asset.CurrentValue = change.AfterValue
		if err := tx.UpdateAsset(ctx, asset); err != nil {
			return err
		}
		if err := tx.AppendChange(ctx, change); err != nil {
			return err
		}

		result = *change
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) getFamilyAsset(ctx context.Context, repo Repository, familyID, assetID string) (*Asset, error) {
	asset, err := repo.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.FamilyID == nil || *asset.FamilyID != familyID {
		return nil, ErrAssetNotFound
	}
	return asset, nil
}

func valuationAdjustChange(asset *Asset, newValue decimal.Decimal, date time.Time, notes *string) *Change {
	pl := newValue.Sub(asset.CurrentValue)
	return &Change{
		Type:           ChangeValuationAdjust,
		Amount:         pl,
		BeforeValue:    asset.CurrentValue,
		AfterValue:     newValue,
		ProfitLoss:     decimal.NullDecimal{Decimal: pl, Valid: true},
		ProfitLossRate: decimal.NullDecimal{Decimal: profitLossRate(pl, asset.CurrentValue), Valid: true},
		Date:           date,
		Notes:          notes,
	}
}

// profitLossRate is the percentage gain against the pre-change value, zero
// when the pre-change value is not positive.
func profitLossRate(profitLoss, before decimal.Decimal) decimal.Decimal {
	if !before.IsPositive() {
		return decimal.Zero
	}
	return profitLoss.Div(before).Mul(decimal.NewFromInt(100)).Round(2)
}

package assets

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDisposed Status = "disposed"
	StatusPending  Status = "pending"
)

// Category is a two-level tree: top-level categories have a nil ParentID,
// child categories point at a top-level one. No deeper nesting exists.
type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FamilyID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	ParentID  *string   `gorm:"type:uuid;index"`
	Icon      string    `gorm:"type:text"`
	Color     string    `gorm:"type:text"`
	IsBuiltin bool      `gorm:"not null;default:false"`
	SortOrder int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "asset_categories"
}

// Asset is a valued holding or liability. FamilyID is a pointer because
// legacy rows predate family scoping; the orphan migrator backfills them.
// HolderID attributes the asset to a member for display only; access
// control is family-wide.
type Asset struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	FamilyID     *string         `gorm:"type:uuid;index"`
	CategoryID   string          `gorm:"type:uuid;index;not null"`
	HolderID     string          `gorm:"type:uuid;index;not null"`
	Name         string          `gorm:"not null"`
	InitialValue decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CurrentValue decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency     string          `gorm:"size:3;not null"`
	PurchaseDate time.Time       `gorm:"type:date;not null"`
	Status       Status          `gorm:"type:varchar(16);not null;default:active"`
	Attributes   *string         `gorm:"type:jsonb"`
	Notes        *string         `gorm:"type:text"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

type ChangeType string

const (
	ChangeBuy             ChangeType = "buy"
	ChangeSell            ChangeType = "sell"
	ChangeTransferIn      ChangeType = "transfer_in"
	ChangeTransferOut     ChangeType = "transfer_out"
	ChangeValuationAdjust ChangeType = "valuation_adjust"
	ChangeDepreciation    ChangeType = "depreciation"
	ChangeDispose         ChangeType = "dispose"
)

// Change is one immutable ledger entry. Rows are appended as a side effect
// of a ledger mutation, in the same transaction as the value write, and are
// never updated or deleted afterwards.
//
// ProfitLoss is only set for value-bearing types. Sell keeps the documented
// degenerate profitLoss of zero: there is no cost-basis tracking.
type Change struct {
	ID             string              `gorm:"type:uuid;primaryKey"`
	AssetID        string              `gorm:"type:uuid;index;not null"`
	Type           ChangeType          `gorm:"type:varchar(32);not null"`
	Amount         decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	BeforeValue    decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	AfterValue     decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	ProfitLoss     decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	ProfitLossRate decimal.NullDecimal `gorm:"type:numeric(9,2)"`
	RelatedAssetID *string             `gorm:"type:uuid"`
	Date           time.Time           `gorm:"type:date;not null"`
	Notes          *string             `gorm:"type:text"`
	CreatedAt      time.Time           `gorm:"autoCreateTime"`
}

func (Change) TableName() string {
	return "asset_changes"
}

// SignedAmount is the value delta this entry applied: afterValue minus
// beforeValue. Summing signed amounts in chronological order reconstructs
// currentValue from initialValue.
func (c Change) SignedAmount() decimal.Decimal {
	return c.AfterValue.Sub(c.BeforeValue)
}

type CreateAssetInput struct {
	CategoryID   string
	HolderID     string
	Name         string
	InitialValue decimal.Decimal
	CurrentValue *decimal.Decimal
	Currency     string
	PurchaseDate time.Time
	Status       Status
	Attributes   *string
	Notes        *string
}

// UpdateAssetInput carries plain field edits. A CurrentValue edit is a
// valuation adjustment and produces a ledger entry.
type UpdateAssetInput struct {
	Name         *string
	CategoryID   *string
	HolderID     *string
	CurrentValue *decimal.Decimal
	PurchaseDate *time.Time
	Attributes   *string
	Notes        *string
}

type CreateCategoryInput struct {
	Name      string
	ParentID  *string
	Icon      string
	Color     string
	SortOrder int
}

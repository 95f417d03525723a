package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeIncome   Type = "income"
	TypeExpense  Type = "expense"
	TypeTransfer Type = "transfer"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense || t == TypeTransfer
}

// Transaction is a family-scoped cash-flow record. FamilyID is a pointer
// for the same reason as assets: legacy rows lack a family until migrated.
type Transaction struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	FamilyID   *string         `gorm:"type:uuid;index"`
	MemberID   string          `gorm:"type:uuid;index;not null"`
	CategoryID string          `gorm:"type:uuid;index;not null"`
	Type       Type            `gorm:"type:varchar(16);not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency   string          `gorm:"size:3;not null"`
	Date       time.Time       `gorm:"type:date;not null"`
	Notes      *string         `gorm:"type:text"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FamilyID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	Type      Type      `gorm:"type:varchar(16);not null"`
	Icon      string    `gorm:"type:text"`
	IsBuiltin bool      `gorm:"not null;default:false"`
	SortOrder int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "transaction_categories"
}

type ListFilter struct {
	From       *time.Time
	To         *time.Time
	Type       *Type
	CategoryID *string
}

// Totals is the only derived number the transaction side carries: period
// income, expense, and their difference, in the base currency.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type CreateTransactionInput struct {
	MemberID   string
	CategoryID string
	Type       Type
	Amount     decimal.Decimal
	Currency   string
	Date       time.Time
	Notes      *string
}

type UpdateTransactionInput struct {
	CategoryID *string
	Amount     *decimal.Decimal
	Date       *time.Time
	Notes      *string
}

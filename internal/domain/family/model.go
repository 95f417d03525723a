package family

import (
	"time"

	"family-ledger-go/internal/domain/role"
)

// Family is the tenancy boundary. All assets, transactions, and categories
// belong to exactly one family.
type Family struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Description *string   `gorm:"type:text"`
	CreatedBy   string    `gorm:"type:uuid;not null;index"`
	InviteCode  string    `gorm:"size:8;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Membership links a user to a family with a role. The composite primary
// key enforces at most one membership per (family, user) pair; a concurrent
// duplicate insert surfaces as a store conflict, never a silent overwrite.
type Membership struct {
	FamilyID  string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Role      role.Role `gorm:"type:varchar(16);not null"`
	InvitedBy *string   `gorm:"type:uuid"`
	JoinedAt  time.Time `gorm:"autoCreateTime"`
}

func (Membership) TableName() string {
	return "family_members"
}

// MemberProfile is a membership row joined with the member's user record,
// for listing.
type MemberProfile struct {
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Email    *string   `json:"email,omitempty"`
	Role     role.Role `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type FamilyWithMembers struct {
	Family
	Members []MemberProfile
}

package user

import "time"

// User is the identity record. CurrentFamilyID is the default family used
// to scope requests that carry no explicit family; it is a last-write-wins
// pointer, not a synchronized source of truth.
type User struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"not null"`
	Email           *string   `gorm:"type:text"`
	CurrentFamilyID *string   `gorm:"type:uuid;index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

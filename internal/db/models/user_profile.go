package models

import "time"

// UserProfile stores per-user profile details that sit outside the
// identity record: how the person presents themselves, not what they may
// do. Every user has at most one profile, created lazily on first access.
type UserProfile struct {
	// ID is the unique identifier for the profile.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the ID of the user owning this profile.
	UserID uint64 `gorm:"column:user_id;uniqueIndex;not null"`
	// User is the owning user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// DisplayName is the preferred display name, overriding the name
	// derived from the user record.
	DisplayName string `gorm:"size:255"`
	// Position is the job position or title.
	Position string `gorm:"size:255"`
	// Status is a free-form availability note.
	Status string `gorm:"size:255"`
	// Location is the physical or organizational location.
	Location string `gorm:"size:255"`
	// Contact holds preferred contact information.
	Contact string `gorm:"size:255"`
	// Type classifies the account: internal, external, guest or bot.
	Type string `gorm:"size:32;default:internal"`
	// Organisation is the organisation the user belongs to.
	Organisation string `gorm:"size:255"`
	// CreatedAt is the timestamp when the profile was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the profile was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the UserProfile model.
func (UserProfile) TableName() string {
	return "user_profiles"
}

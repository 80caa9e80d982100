package models

import "time"

// Group represents a named collection of users.
// Groups own zero or more rule sets (one per resource category), which
// together define the role permissions of every member.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the group as it appears in the system.
	Name string `gorm:"unique;size:100;not null"`
	// Description provides a human-readable explanation of the group's purpose.
	Description string `gorm:"size:255"`
	// RuleSets are the per-category permission rule sets owned by this group.
	// They are destroyed together with the group.
	RuleSets []RuleSet `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
// This overrides GORM's default pluralized table naming.
func (Group) TableName() string {
	return "groups"
}

package models

import "time"

// RuleSet bundles the CRUD permission flags a group holds for a single
// resource category. At most one rule set exists per (group, category)
// pair. A user's effective permission for a category is the logical OR of
// the matching rule sets across all groups the user belongs to.
type RuleSet struct {
	// ID is the unique identifier for the rule set.
	ID uint `gorm:"primaryKey"`
	// GroupID is the ID of the group owning this rule set.
	// Combined with Name this forms a unique constraint.
	GroupID uint `gorm:"column:group_id;not null;uniqueIndex:idx_group_ruleset"`
	// Group is the owning group (loaded via foreign key).
	// When a group is deleted, its rule sets are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// Name is the resource category this rule set applies to (e.g. "part", "stock").
	Name string `gorm:"size:50;not null;uniqueIndex:idx_group_ruleset"`
	// CanView allows viewing resources of this category.
	CanView bool `gorm:"column:can_view"`
	// CanAdd allows creating resources of this category.
	CanAdd bool `gorm:"column:can_add"`
	// CanChange allows editing resources of this category.
	CanChange bool `gorm:"column:can_change"`
	// CanDelete allows deleting resources of this category.
	CanDelete bool `gorm:"column:can_delete"`
	// CreatedAt is the timestamp when the rule set was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the rule set was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the RuleSet model.
// This overrides GORM's default pluralized table naming.
func (RuleSet) TableName() string {
	return "rulesets"
}

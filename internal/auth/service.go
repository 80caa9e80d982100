package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
)

// Perms is the set of CRUD flags a user holds for one resource category.
type Perms struct {
	View   bool `json:"view"`
	Add    bool `json:"add"`
	Change bool `json:"change"`
	Delete bool `json:"delete"`
}

// Allows reports whether the given action is granted.
// Unknown actions are never granted.
func (p Perms) Allows(action string) bool {
	switch action {
	case ActionView:
		return p.View
	case ActionAdd:
		return p.Add
	case ActionChange:
		return p.Change
	case ActionDelete:
		return p.Delete
	default:
		return false
	}
}

// Service evaluates effective role permissions from group rule sets.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// DB exposes the underlying database handle for collaborators that resolve
// actors themselves (e.g. the web middleware).
func (s *Service) DB() *gorm.DB {
	return s.db
}

// EffectivePermissions computes the per-category CRUD flags for a user.
//
// For superusers every known category maps to all-true. For everyone else
// each flag is true iff any group the user belongs to has a rule set for
// that category with the flag set (logical OR across groups, a user is
// never more restricted than their most permissive group). Categories with
// no matching rule set are absent from the result and therefore all-false.
//
// The result is computed fresh on every call so that membership changes
// take effect on the next request.
func (s *Service) EffectivePermissions(user *models.User) (map[string]Perms, error) {
	result := make(map[string]Perms, len(Categories))

	if user == nil {
		return result, nil
	}

	if user.IsSuperuser {
		for _, category := range Categories {
			result[category] = Perms{View: true, Add: true, Change: true, Delete: true}
		}

		return result, nil
	}

	var ruleSets []models.RuleSet

	err := s.db.Table("rulesets").
		Joins("JOIN user_groups ON user_groups.group_id = rulesets.group_id").
		Where("user_groups.user_id = ?", user.ID).
		Find(&ruleSets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rule sets for user: %w", err)
	}

	// OR-fold the flags per category across all groups.
	for _, rs := range ruleSets {
		if !ValidCategory(rs.Name) {
			// Stale category names fail closed.
			continue
		}

		p := result[rs.Name]
		p.View = p.View || rs.CanView
		p.Add = p.Add || rs.CanAdd
		p.Change = p.Change || rs.CanChange
		p.Delete = p.Delete || rs.CanDelete
		result[rs.Name] = p
	}

	return result, nil
}

// HasRolePermission checks a single (category, action) pair for a user.
// Unknown categories and actions are denied, never an error.
func (s *Service) HasRolePermission(user *models.User, category, action string) (bool, error) {
	if user == nil {
		return false, nil
	}

	if user.IsSuperuser {
		return true, nil
	}

	perms, err := s.EffectivePermissions(user)
	if err != nil {
		return false, err
	}

	return perms[category].Allows(action), nil
}

// GetUserGroups retrieves all groups a user belongs to.
func (s *Service) GetUserGroups(userID uint64) ([]models.Group, error) {
	var groups []models.Group

	err := s.db.Table("groups").
		Joins("JOIN user_groups ON user_groups.group_id = groups.id").
		Where("user_groups.user_id = ?", userID).
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}

	return groups, nil
}

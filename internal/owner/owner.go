// Package owner unifies users and groups as a single addressable "owner"
// entity for responsibility assignment elsewhere in the inventory system.
//
// An owner is a read-only projection over the union of the user and group
// tables. It is never independently created or deleted, it materializes
// from the underlying entity and disappears with it.
package owner

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
)

// Kind discriminates the two owner variants.
type Kind string

const (
	// KindUser marks an owner backed by a user record.
	KindUser Kind = "user"
	// KindGroup marks an owner backed by a group record.
	KindGroup Kind = "group"
)

// ErrOwnerNotFound is returned when (kind, id) does not resolve to an
// existing user or group.
var ErrOwnerNotFound = errors.New("owner not found")

// ErrUnknownOwnerKind is returned for a kind outside {user, group}.
var ErrUnknownOwnerKind = errors.New("unknown owner kind")

// Owner is the unified projection of a user or group.
type Owner struct {
	// Kind is the owner variant, "user" or "group".
	Kind Kind `json:"owner_type"`
	// ID is the primary key of the underlying entity.
	ID uint64 `json:"owner_id"`
	// Name is the display name resolved from the underlying entity.
	Name string `json:"name"`
	// active mirrors User.Active for user owners. Group owners are always
	// considered active.
	active bool
}

// Resolver resolves and searches owners against the user/group store.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates an owner resolver.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve returns the owner projection for (kind, id).
func (r *Resolver) Resolve(kind Kind, id uint64) (*Owner, error) {
	switch kind {
	case KindUser:
		var user models.User

		err := r.db.First(&user, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}

		if err != nil {
			return nil, fmt.Errorf("failed to resolve user owner: %w", err)
		}

		return &Owner{Kind: KindUser, ID: user.ID, Name: user.DisplayName(), active: user.Active}, nil
	case KindGroup:
		var group models.Group

		err := r.db.First(&group, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}

		if err != nil {
			return nil, fmt.Errorf("failed to resolve group owner: %w", err)
		}

		return &Owner{Kind: KindGroup, ID: uint64(group.ID), Name: group.Name, active: true}, nil
	default:
		return nil, ErrUnknownOwnerKind
	}
}

// List returns all owners, groups first, then users.
func (r *Resolver) List() ([]Owner, error) {
	var groups []models.Group

	if err := r.db.Order("name").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var users []models.User

	if err := r.db.Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	owners := make([]Owner, 0, len(groups)+len(users))

	for _, g := range groups {
		owners = append(owners, Owner{Kind: KindGroup, ID: uint64(g.ID), Name: g.Name, active: true})
	}

	for i := range users {
		u := &users[i]
		owners = append(owners, Owner{Kind: KindUser, ID: u.ID, Name: u.DisplayName(), active: u.Active})
	}

	return owners, nil
}

// Search filters the owner union by a free text query.
//
// The query is tokenized on whitespace and an owner matches iff every
// token is a case-insensitive substring of its resolved name. If isActive
// is set, user owners must additionally have a matching active flag; group
// owners are unaffected by the filter and always pass it.
//
// An owner name is not a directly queryable column of the unified
// projection, so this is deliberately a post-filter over a full scan
// rather than a database-level predicate. Given expected cardinality
// (organizations, not internet-scale) this is acceptable.
func (r *Resolver) Search(query string, isActive *bool) ([]Owner, error) {
	owners, err := r.List()
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))

	results := make([]Owner, 0, len(owners))

	for _, o := range owners {
		name := strings.ToLower(strings.TrimSpace(o.Name))

		match := true

		for _, term := range terms {
			if !strings.Contains(name, term) {
				match = false
				break
			}
		}

		if !match {
			continue
		}

		if isActive != nil && o.Kind == KindUser && o.active != *isActive {
			continue
		}

		results = append(results, o)
	}

	return results, nil
}

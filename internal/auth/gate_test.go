package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
)

func TestGateUnauthenticated(t *testing.T) {
	gate := NewGate(NewService(setupTestDB(t)))

	// a missing actor is a distinct condition from permission denial
	assert.ErrorIs(t, gate.Authorize(nil, CategoryPart, ActionView), ErrNotAuthenticated)
	assert.ErrorIs(t, gate.Authorize(&Actor{}, CategoryPart, ActionAdd), ErrNotAuthenticated)
	assert.ErrorIs(t, gate.RequireSuperuser(nil), ErrNotAuthenticated)
	assert.ErrorIs(t, gate.AuthorizeSelf(nil, 1, ActionChange), ErrNotAuthenticated)
}

func TestGateStaffOrReadOnly(t *testing.T) {
	db := setupTestDB(t)
	gate := NewGate(NewService(db))

	// Engineers grant view but not add on parts
	bob := createUser(t, db, "bob", false, false)
	createGroup(t, db, "Engineers", []models.RuleSet{
		{Name: CategoryPart, CanView: true, CanAdd: false},
	}, bob)

	// staff member whose group grants add on parts
	staffed := createUser(t, db, "staffed", true, false)
	createGroup(t, db, "Builders", []models.RuleSet{
		{Name: CategoryPart, CanView: true, CanAdd: true},
	}, staffed)

	// staff member without any role permission
	roleless := createUser(t, db, "roleless", true, false)

	// non-staff member whose group grants add on parts
	unstaffed := createUser(t, db, "unstaffed", false, false)
	createGroup(t, db, "Shadow", []models.RuleSet{
		{Name: CategoryPart, CanAdd: true},
	}, unstaffed)

	testCases := []struct {
		name     string
		actor    *models.User
		action   string
		expected error
	}{
		{name: "authenticated view always allowed", actor: bob, action: ActionView},
		{name: "non-staff write denied", actor: bob, action: ActionAdd, expected: ErrPermissionDenied},
		{name: "staff with role allowed", actor: staffed, action: ActionAdd},
		{name: "staff without role denied", actor: roleless, action: ActionAdd, expected: ErrPermissionDenied},
		{name: "role without staff denied", actor: unstaffed, action: ActionAdd, expected: ErrPermissionDenied},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := gate.Authorize(NewActor(tc.actor), CategoryPart, tc.action)
			if tc.expected != nil {
				assert.ErrorIs(t, err, tc.expected)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestGateSuperuserBypassesEverything(t *testing.T) {
	db := setupTestDB(t)
	gate := NewGate(NewService(db))

	// not even staff, no groups at all
	root := createUser(t, db, "root", false, true)
	actor := NewActor(root)

	require.NoError(t, gate.Authorize(actor, CategoryPart, ActionDelete))
	require.NoError(t, gate.Authorize(actor, "unknown", ActionAdd))
	require.NoError(t, gate.RequireSuperuser(actor))
}

func TestGateSelfEditBypass(t *testing.T) {
	db := setupTestDB(t)
	gate := NewGate(NewService(db))

	// non-staff user with all-false permissions everywhere
	nobody := createUser(t, db, "nobody", false, false)
	other := createUser(t, db, "other", false, false)

	// editing the own record always works
	assert.NoError(t, gate.AuthorizeSelf(NewActor(nobody), nobody.ID, ActionChange))

	// editing someone else falls through to the admin gate
	assert.ErrorIs(t, gate.AuthorizeSelf(NewActor(nobody), other.ID, ActionChange), ErrPermissionDenied)
}

func TestGateSuperuserOnly(t *testing.T) {
	db := setupTestDB(t)
	gate := NewGate(NewService(db))

	// the superuser gate is never derivable from rule sets
	staffed := createUser(t, db, "staffed", true, false)
	createGroup(t, db, "admins", []models.RuleSet{
		{Name: CategoryAdmin, CanView: true, CanAdd: true, CanChange: true, CanDelete: true},
	}, staffed)

	assert.ErrorIs(t, gate.RequireSuperuser(NewActor(staffed)), ErrPermissionDenied)
}

func TestPermsAllows(t *testing.T) {
	p := Perms{View: true, Change: true}

	assert.True(t, p.Allows(ActionView))
	assert.False(t, p.Allows(ActionAdd))
	assert.True(t, p.Allows(ActionChange))
	assert.False(t, p.Allows(ActionDelete))
	assert.False(t, p.Allows("bogus"))
}

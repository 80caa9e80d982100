package owner

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Group{}, &models.RuleSet{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedOwners(t *testing.T, db *gorm.DB) {
	t.Helper()

	users := []models.User{
		{Username: "jhopkins", FirstName: "John", LastName: "Hopkins", Active: true},
		{Username: "jfield", FirstName: "Johnson", LastName: "Field", Active: true},
		{Username: "mstone", FirstName: "Mary", LastName: "Stone", Active: false},
		{Username: "plainuser", Active: true},
	}

	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	groups := []models.Group{
		{Name: "Engineers"},
		{Name: "Field Support"},
	}

	for i := range groups {
		require.NoError(t, db.Create(&groups[i]).Error)
	}
}

func TestResolve(t *testing.T) {
	db := setupTestDB(t)
	seedOwners(t, db)
	resolver := NewResolver(db)

	user, err := resolver.Resolve(KindUser, 1)
	require.NoError(t, err)
	assert.Equal(t, KindUser, user.Kind)
	assert.Equal(t, "John Hopkins", user.Name)

	group, err := resolver.Resolve(KindGroup, 1)
	require.NoError(t, err)
	assert.Equal(t, KindGroup, group.Kind)
	assert.Equal(t, "Engineers", group.Name)

	_, err = resolver.Resolve(KindUser, 999)
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	_, err = resolver.Resolve("robot", 1)
	assert.ErrorIs(t, err, ErrUnknownOwnerKind)
}

func TestResolveFallsBackToUsername(t *testing.T) {
	db := setupTestDB(t)
	seedOwners(t, db)
	resolver := NewResolver(db)

	owner, err := resolver.Resolve(KindUser, 4)
	require.NoError(t, err)
	assert.Equal(t, "plainuser", owner.Name)
}

func TestSearchAllTermsMustMatch(t *testing.T) {
	db := setupTestDB(t)
	seedOwners(t, db)
	resolver := NewResolver(db)

	names := func(owners []Owner) []string {
		out := make([]string, 0, len(owners))
		for _, o := range owners {
			out = append(out, o.Name)
		}

		return out
	}

	// every whitespace separated term must be a substring of the name
	results, err := resolver.Search("jo hn", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Johnson Field", "John Hopkins"}, names(results))

	results, err = resolver.Search("john field", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Johnson Field"}, names(results))

	// matching is case-insensitive
	results, err = resolver.Search("FIELD", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Field Support", "Johnson Field"}, names(results))

	// no terms means every owner matches
	results, err = resolver.Search("", nil)
	require.NoError(t, err)
	assert.Len(t, results, 6)
}

func TestSearchIsActiveFilter(t *testing.T) {
	db := setupTestDB(t)
	seedOwners(t, db)
	resolver := NewResolver(db)

	active := true
	results, err := resolver.Search("", &active)
	require.NoError(t, err)

	// inactive Mary Stone is filtered, groups always pass the filter
	assert.Len(t, results, 5)

	for _, o := range results {
		assert.NotEqual(t, "Mary Stone", o.Name)
	}

	inactive := false
	results, err = resolver.Search("", &inactive)
	require.NoError(t, err)

	// both groups plus the one inactive user
	assert.Len(t, results, 3)
}

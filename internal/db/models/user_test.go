package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.AutoMigrate(&User{}), "failed to migrate test database")

	return db
}

func TestUserDisplayName(t *testing.T) {
	full := User{Username: "jhopkins", FirstName: "John", LastName: "Hopkins"}
	assert.Equal(t, "John Hopkins", full.DisplayName())

	bare := User{Username: "jhopkins"}
	assert.Equal(t, "jhopkins", bare.DisplayName())
}

func TestUserPasswordRoundTrip(t *testing.T) {
	user := User{Username: "alice", Password: HashPassword("s3cret-pass")}

	assert.True(t, user.VerifyPassword("s3cret-pass"))
	assert.False(t, user.VerifyPassword("wrong"))
}

func TestUserDeleteIsSoft(t *testing.T) {
	db := setupTestDB(t)

	user := User{Username: "alice", Active: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Delete(&user).Error)

	// deleted users disappear from regular queries
	var found User
	err := db.First(&found, user.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// but the row remains for the audit trail
	require.NoError(t, db.Unscoped().First(&found, user.ID).Error)
	assert.True(t, found.DeletedAt.Valid)
}

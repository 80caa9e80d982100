package auth

import (
	"encoding/base64"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/token"
)

// newTestApp builds a fiber app with the actor middleware and a probe
// route reporting who the request resolved to.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *token.Manager) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Group{}, &models.RuleSet{},
		&models.UserGroup{}, &models.ApiToken{})
	require.NoError(t, err, "failed to migrate test database")

	tokens := token.NewManager(db, 365, "inv-")

	app := fiber.New()
	app.Use(New(db, tokens))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		actor := auth.CurrentActor(c)
		if actor == nil {
			return c.SendString("anonymous")
		}

		return c.SendString(actor.User.Username)
	})

	return app, db, tokens
}

func createUser(t *testing.T, db *gorm.DB, username, password string, active bool) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Password: models.HashPassword(password),
		Active:   active,
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

func whoami(t *testing.T, app *fiber.App, authorization string) string {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}

func TestNoCredentialsPassThrough(t *testing.T) {
	app, _, _ := newTestApp(t)

	assert.Equal(t, "anonymous", whoami(t, app, ""))
}

func TestTokenAuthentication(t *testing.T) {
	app, db, tokens := newTestApp(t)
	alice := createUser(t, db, "alice", "s3cret-pass", true)

	issued, err := tokens.Issue(alice, "ci", nil)
	require.NoError(t, err)

	assert.Equal(t, "alice", whoami(t, app, "Token "+issued.Key))
	assert.Equal(t, "anonymous", whoami(t, app, "Token inv-bogus"))
}

func TestRevokedTokenNoLongerAuthenticates(t *testing.T) {
	app, db, tokens := newTestApp(t)
	alice := createUser(t, db, "alice", "s3cret-pass", true)

	issued, err := tokens.Issue(alice, "ci", nil)
	require.NoError(t, err)
	require.NoError(t, tokens.Revoke(auth.NewActor(alice), issued.ID))

	assert.Equal(t, "anonymous", whoami(t, app, "Token "+issued.Key))

	// a fresh issue after revocation yields a different key that works
	fresh, err := tokens.Issue(alice, "ci", nil)
	require.NoError(t, err)
	require.NotEqual(t, issued.Key, fresh.Key)

	assert.Equal(t, "alice", whoami(t, app, "Token "+fresh.Key))
}

func TestInactiveUserTokenRejected(t *testing.T) {
	app, db, tokens := newTestApp(t)
	bob := createUser(t, db, "bob", "s3cret-pass", true)

	issued, err := tokens.Issue(bob, "ci", nil)
	require.NoError(t, err)

	require.NoError(t, db.Model(bob).Update("active", false).Error)

	assert.Equal(t, "anonymous", whoami(t, app, "Token "+issued.Key))
}

func TestBasicAuthentication(t *testing.T) {
	app, db, _ := newTestApp(t)
	createUser(t, db, "alice", "s3cret-pass", true)
	createUser(t, db, "mallory", "whatever", false)

	creds := func(user, pass string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	}

	assert.Equal(t, "alice", whoami(t, app, creds("alice", "s3cret-pass")))
	assert.Equal(t, "anonymous", whoami(t, app, creds("alice", "wrong-pass")))
	assert.Equal(t, "anonymous", whoami(t, app, creds("nobody", "s3cret-pass")))

	// deactivated accounts never authenticate
	assert.Equal(t, "anonymous", whoami(t, app, creds("mallory", "whatever")))
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	app, db, _ := newTestApp(t)
	createUser(t, db, "alice", "s3cret-pass", true)

	assert.Equal(t, "anonymous", whoami(t, app, "Bearer something"))
	assert.Equal(t, "anonymous", whoami(t, app, "Basic %%%not-base64"))
	assert.Equal(t, "anonymous", whoami(t, app, "Basic "+base64.StdEncoding.EncodeToString([]byte("no-colon"))))
}

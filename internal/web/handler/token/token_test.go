package token

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/config"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/token"
	authmw "github.com/GoInventory-Admin/GoInventory-Admin/internal/web/middleware/auth"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *token.Manager) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Group{}, &models.RuleSet{},
		&models.UserGroup{}, &models.ApiToken{})
	require.NoError(t, err, "failed to migrate test database")

	tokens := token.NewManager(db, 365, "inv-")
	gate := auth.NewGate(auth.NewService(db))
	cfg := &config.Config{}

	app := fiber.New()
	app.Use(authmw.New(db, tokens))

	svc := Service{}
	svc.Init(app, cfg, db, gate, tokens)

	return app, db, tokens
}

func TestRequestMetadataKeys(t *testing.T) {
	app := fiber.New()

	var meta map[string]string

	app.Get("/", func(c *fiber.Ctx) error {
		meta = requestMetadata(c, auth.NewActor(&models.User{Username: "alice"}))
		return c.SendString("ok")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderUserAgent, "curl/8.0")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "curl/8.0", meta["user_agent"])
	assert.Equal(t, "alice", meta["remote_user"])
	assert.NotEmpty(t, meta["remote_addr"])

	for _, key := range []string{"remote_host", "server_name"} {
		_, ok := meta[key]
		assert.True(t, ok, key)
	}
}

func TestRequestMetadataTokenActorHasNoRemoteUser(t *testing.T) {
	app := fiber.New()

	var meta map[string]string

	app.Get("/", func(c *fiber.Ctx) error {
		actor := auth.NewActor(&models.User{Username: "alice"})
		actor.TokenID = 7
		meta = requestMetadata(c, actor)

		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Empty(t, meta["remote_user"])
}

func TestListMarksTokenInUse(t *testing.T) {
	app, db, tokens := newTestApp(t)

	alice := &models.User{Username: "alice", Active: true}
	require.NoError(t, db.Create(alice).Error)

	ci, err := tokens.Issue(alice, "ci", nil)
	require.NoError(t, err)

	mobile, err := tokens.Issue(alice, "mobile", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, ListPath, nil)
	req.Header.Set(fiber.HeaderAuthorization, "Token "+ci.Key)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload []struct {
		ID    uint64 `json:"id"`
		InUse bool   `json:"in_use"`
		Key   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Len(t, payload, 2)

	for _, entry := range payload {
		assert.Equal(t, entry.ID == ci.ID, entry.InUse)
		assert.NotEqual(t, entry.ID == mobile.ID, entry.InUse)

		// the key never leaves the issuance endpoint
		assert.Empty(t, entry.Key)
	}
}

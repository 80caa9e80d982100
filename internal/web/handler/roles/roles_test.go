package roles

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
	authService := auth.NewService(db)
	gate := auth.NewGate(authService)
	cfg := &config.Config{}

	app := fiber.New()
	app.Use(authmw.New(db, tokens))

	svc := Service{}
	svc.Init(app, cfg, db, gate, authService)

	return app, db, tokens
}

func issueToken(t *testing.T, db *gorm.DB, tokens *token.Manager, user *models.User) string {
	t.Helper()

	require.NoError(t, db.Create(user).Error)

	issued, err := tokens.Issue(user, "test", nil)
	require.NoError(t, err)

	return issued.Key
}

func TestDetailRequiresAuthentication(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, Path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDetailCoversAllCategories(t *testing.T) {
	app, db, tokens := newTestApp(t)

	key := issueToken(t, db, tokens, &models.User{Username: "alice", Active: true})

	req := httptest.NewRequest(fiber.MethodGet, Path, nil)
	req.Header.Set(fiber.HeaderAuthorization, "Token "+key)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		User        uint64                `json:"user"`
		Username    string                `json:"username"`
		IsStaff     bool                  `json:"is_staff"`
		IsSuperuser bool                  `json:"is_superuser"`
		Roles       map[string]auth.Perms `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))

	assert.Equal(t, "alice", payload.Username)
	assert.False(t, payload.IsStaff)
	assert.Len(t, payload.Roles, len(auth.Categories))

	// a user without groups holds no permissions anywhere
	for category, perms := range payload.Roles {
		assert.False(t, perms.View, category)
		assert.False(t, perms.Add, category)
		assert.False(t, perms.Change, category)
		assert.False(t, perms.Delete, category)
	}
}

func TestDetailReflectsGroupRules(t *testing.T) {
	app, db, tokens := newTestApp(t)

	user := &models.User{Username: "bob", Active: true}
	key := issueToken(t, db, tokens, user)

	group := &models.Group{Name: "Stock Clerks"}
	require.NoError(t, db.Create(group).Error)
	require.NoError(t, db.Create(&models.RuleSet{
		GroupID: group.ID, Name: auth.CategoryStock, CanView: true, CanAdd: true,
	}).Error)
	require.NoError(t, db.Create(&models.UserGroup{UserID: user.ID, GroupID: group.ID}).Error)

	req := httptest.NewRequest(fiber.MethodGet, Path, nil)
	req.Header.Set(fiber.HeaderAuthorization, "Token "+key)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Roles map[string]auth.Perms `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))

	stock := payload.Roles[auth.CategoryStock]
	assert.True(t, stock.View)
	assert.True(t, stock.Add)
	assert.False(t, stock.Change)
	assert.False(t, stock.Delete)
}

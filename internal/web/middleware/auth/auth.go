package auth

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/token"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/session"
)

// tokenScheme is the Authorization header scheme for API token auth.
const tokenScheme = "Token "

// basicScheme is the Authorization header scheme for HTTP basic auth.
const basicScheme = "Basic "

// New creates the actor resolution middleware.
//
// The actor is resolved in order from the session cookie, from an
// "Authorization: Token <key>" header (revoked and expired keys never
// authenticate) and from HTTP basic credentials. Unauthenticated requests
// pass through with no actor set, route guards decide whether that is
// acceptable.
func New(db *gorm.DB, tokens *token.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if actor := fromSession(c, db); actor != nil {
			c.Locals(auth.ActorKey, actor)
			return c.Next()
		}

		if actor := fromHeader(c, db, tokens); actor != nil {
			c.Locals(auth.ActorKey, actor)
			return c.Next()
		}

		return c.Next()
	}
}

// fromSession resolves the actor from the session cookie. The user record
// is loaded fresh so flag and membership changes apply immediately.
func fromSession(c *fiber.Ctx, db *gorm.DB) *auth.Actor {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return nil
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil || sessData.UserID == 0 {
		return nil
	}

	return loadActiveUser(db, sessData.UserID)
}

// fromHeader resolves the actor from the Authorization header, trying the
// token scheme first and basic credentials second.
func fromHeader(c *fiber.Ctx, db *gorm.DB, tokens *token.Manager) *auth.Actor {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil
	}

	if strings.HasPrefix(header, tokenScheme) {
		key := strings.TrimSpace(strings.TrimPrefix(header, tokenScheme))

		apiToken, user, err := tokens.Authenticate(key)
		if err != nil {
			if !errors.Is(err, auth.ErrNotAuthenticated) {
				log.Error().Err(err).Msg("token authentication failed")
			}

			return nil
		}

		actor := auth.NewActor(user)
		actor.TokenID = apiToken.ID

		return actor
	}

	if strings.HasPrefix(header, basicScheme) {
		return fromBasic(db, strings.TrimPrefix(header, basicScheme))
	}

	return nil
}

// fromBasic resolves the actor from base64 encoded basic credentials.
func fromBasic(db *gorm.DB, encoded string) *auth.Actor {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil
	}

	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return nil
	}

	var user models.User

	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil
	}

	if !user.Active || !user.VerifyPassword(password) {
		return nil
	}

	return auth.NewActor(&user)
}

// loadActiveUser loads a user by id, returning nil for missing or
// deactivated accounts.
func loadActiveUser(db *gorm.DB, userID uint64) *auth.Actor {
	var user models.User

	if err := db.First(&user, userID).Error; err != nil {
		return nil
	}

	if !user.Active {
		return nil
	}

	return auth.NewActor(&user)
}

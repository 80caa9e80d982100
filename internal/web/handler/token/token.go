// Package token provides the accounts API endpoints for issuing, listing
// and revoking API tokens.
package token

import (
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/config"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/token"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/session"
)

const (
	// IssuePath is the path of the token issuance endpoint. This is the only
	// endpoint that ever reveals a token key.
	IssuePath = handler.APIRootPath + "/token"

	// ListPath is the base path of the key-redacted token endpoints.
	ListPath = handler.APIRootPath + "/tokens"
)

// Service provides the token endpoints.
type Service struct {
	cfg     *config.Config
	manager *token.Manager
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, gate *auth.Gate, manager *token.Manager) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.manager = manager

	// Routes
	app.Get(IssuePath, auth.RequireAuthenticated(gate), s.Issue)
	app.Get(ListPath, auth.RequireAuthenticated(gate), s.List)
	app.Get(ListPath+"/:id<int>", auth.RequireAuthenticated(gate), s.Detail)
	app.Delete(ListPath+"/:id<int>", auth.RequireAuthenticated(gate), s.Revoke)
}

// redacted is the serialized token record without the secret key. InUse
// marks the token the current request authenticated with.
type redacted struct {
	ID      uint64    `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	Expiry  time.Time `json:"expiry"`
	Revoked bool      `json:"revoked"`
	Active  bool      `json:"active"`
	InUse   bool      `json:"in_use"`
	User    uint64    `json:"user"`
}

func redact(t *models.ApiToken, today time.Time, actor *auth.Actor) redacted {
	return redacted{
		ID:      t.ID,
		Name:    t.Name,
		Created: t.Created,
		Expiry:  t.Expiry,
		Revoked: t.Revoked,
		Active:  t.IsActive(today),
		InUse:   actor != nil && actor.TokenID == t.ID,
		User:    t.UserID,
	}
}

// Issue returns the API token for (current user, ?name=), creating it on
// first request. Request metadata is captured on the token. If the request
// authenticated through credentials rather than a session, a session is
// established for the user as a side effect.
func (s *Service) Issue(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	apiToken, err := s.manager.Issue(actor.User, c.Query("name"), requestMetadata(c, actor))
	if err != nil {
		log.Error().Err(err).Uint64("user_id", actor.User.ID).Msg("token issuance failed")

		return handler.InternalError(c)
	}

	if err := s.ensureSession(c, actor.User.ID); err != nil {
		// The token itself was issued, a session failure is not fatal.
		log.Warn().Err(err).Uint64("user_id", actor.User.ID).Msg("failed to establish session")
	}

	return c.JSON(fiber.Map{
		"token":  apiToken.Key,
		"name":   apiToken.Name,
		"expiry": apiToken.Expiry,
	})
}

// List returns the tokens visible to the actor with the key redacted.
// Superusers may pass ?all_users=true to see every token.
func (s *Service) List(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	allUsers := c.Query("all_users") == "true" || c.Query("all_users") == "1"

	tokens, err := s.manager.List(actor, allUsers)
	if err != nil {
		log.Error().Err(err).Msg("token list failed")

		return handler.InternalError(c)
	}

	today := time.Now()

	out := make([]redacted, 0, len(tokens))
	for i := range tokens {
		out = append(out, redact(&tokens[i], today, actor))
	}

	return c.JSON(out)
}

// Detail returns a single token with the key redacted.
func (s *Service) Detail(c *fiber.Ctx) error {
	apiToken, err := s.load(c)
	if err != nil {
		return s.renderError(c, err)
	}

	return c.JSON(redact(apiToken, time.Now(), auth.CurrentActor(c)))
}

// Revoke marks a token as revoked. The record is kept for the audit trail,
// revocation is terminal.
func (s *Service) Revoke(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return handler.NotFound(c)
	}

	if err := s.manager.Revoke(auth.CurrentActor(c), id); err != nil {
		return s.renderError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the token addressed by the :id path parameter, scoped to
// the actor.
func (s *Service) load(c *fiber.Ctx) (*models.ApiToken, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, token.ErrTokenNotFound
	}

	return s.manager.Get(auth.CurrentActor(c), id)
}

// renderError maps manager errors to HTTP responses.
func (s *Service) renderError(c *fiber.Ctx, err error) error {
	if errors.Is(err, token.ErrTokenNotFound) {
		return handler.NotFound(c)
	}

	_, resp := auth.HandleGateError(c, err)

	return resp
}

// requestMetadata captures the request attributes recorded on the token.
// remote_host stays empty (no reverse lookup of the client address) and
// remote_user is only known for basic authenticated requests, where the
// actor resolution already recorded the username.
func requestMetadata(c *fiber.Ctx, actor *auth.Actor) map[string]string {
	meta := map[string]string{
		"user_agent":  c.Get(fiber.HeaderUserAgent),
		"remote_addr": c.IP(),
		"remote_host": "",
		"remote_user": "",
		"server_name": c.Hostname(),
	}

	if actor != nil && actor.User != nil && actor.TokenID == 0 {
		meta["remote_user"] = actor.User.Username
	}

	if addr := c.Context().LocalAddr(); addr != nil {
		if _, port, err := net.SplitHostPort(addr.String()); err == nil {
			meta["server_port"] = port
		}
	}

	return meta
}

// ensureSession makes sure the requesting session is logged in as the
// user. Idempotent if a valid session cookie is already present.
func (s *Service) ensureSession(c *fiber.Ctx, userID uint64) error {
	if cookie := c.Cookies("session"); cookie != "" {
		existing := new(session.Data)
		if err := existing.Read(cookie); err == nil && existing.UserID == userID {
			return nil
		}
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return err
	}

	data := session.Data{UserID: userID}
	if err := data.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

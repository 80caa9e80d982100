// Package roles provides the endpoint exposing the current actor's
// effective role permissions.
package roles

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/config"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler"
)

// Path is the path for the role details endpoint.
const Path = handler.APIRootPath + "/roles"

// Service provides the role details endpoint.
type Service struct {
	authService *auth.Service
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, gate *auth.Gate, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.authService = authService

	app.Get(Path, auth.RequireAuthenticated(gate), s.Detail)
}

// Detail returns the per-category permissions of the current actor.
// Permissions are computed fresh on every request so that membership
// changes between requests are reflected immediately.
func (s *Service) Detail(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	perms, err := s.authService.EffectivePermissions(actor.User)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", actor.User.ID).Msg("compute effective permissions failed")

		return handler.InternalError(c)
	}

	// Every known category appears in the response, absent ones as all-false.
	roles := make(map[string]auth.Perms, len(auth.Categories))
	for _, category := range auth.Categories {
		roles[category] = perms[category]
	}

	return c.JSON(fiber.Map{
		"user":         actor.User.ID,
		"username":     actor.User.Username,
		"is_staff":     actor.User.IsStaff,
		"is_superuser": actor.User.IsSuperuser,
		"roles":        roles,
	})
}

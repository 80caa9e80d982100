// Package owner provides the read-only accounts API endpoints for the
// unified owner projection over users and groups.
package owner

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/config"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/owner"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler"
)

// Path is the base path for owner lookups.
const Path = handler.APIRootPath + "/owner"

// Service provides the owner list/search and detail endpoints. Owners are
// a projection, they cannot be created, edited or deleted here.
type Service struct {
	cfg      *config.Config
	resolver *owner.Resolver
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, gate *auth.Gate) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.resolver = owner.NewResolver(db)

	// Routes
	app.Get(Path, auth.RequireAuthenticated(gate), s.List)
	app.Get(Path+"/:type/:id<int>", auth.RequireAuthenticated(gate), s.Detail)
}

// List returns all owners matching the optional ?search= and ?is_active=
// filters. Every whitespace separated search term must match the owner
// name; the active filter applies to user owners only.
func (s *Service) List(c *fiber.Ctx) error {
	var isActive *bool

	if v := c.Query("is_active"); v != "" {
		b := v == "true" || v == "1"
		isActive = &b
	}

	owners, err := s.resolver.Search(c.Query("search"), isActive)
	if err != nil {
		log.Error().Err(err).Msg("owner search failed")

		return handler.InternalError(c)
	}

	return c.JSON(owners)
}

// Detail resolves a single owner by (type, id).
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return handler.NotFound(c)
	}

	result, err := s.resolver.Resolve(owner.Kind(c.Params("type")), id)
	if err != nil {
		if errors.Is(err, owner.ErrOwnerNotFound) || errors.Is(err, owner.ErrUnknownOwnerKind) {
			return handler.NotFound(c)
		}

		log.Error().Err(err).Msg("owner resolve failed")

		return handler.InternalError(c)
	}

	return c.JSON(result)
}

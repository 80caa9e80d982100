// Package group provides the accounts API endpoints for group management.
package group

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/config"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler"
)

// Path is the base path for group management.
const Path = handler.APIRootPath + "/group"

// Service provides CRUD operations for groups.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	gate      *auth.Gate
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, gate *auth.Gate) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.gate = gate
	s.validator = validator.New()

	// Routes
	app.Get(Path, auth.RequireAuthenticated(gate), s.List)
	app.Post(Path,
		auth.RequireRole(gate, auth.CategoryAdmin, auth.ActionAdd),
		s.Create,
	)
	app.Get(Path+"/:id<int>", auth.RequireAuthenticated(gate), s.Detail)
	app.Put(Path+"/:id<int>",
		auth.RequireRole(gate, auth.CategoryAdmin, auth.ActionChange),
		s.Update,
	)
	app.Delete(Path+"/:id<int>",
		auth.RequireRole(gate, auth.CategoryAdmin, auth.ActionDelete),
		s.Delete,
	)
}

// createRequest is the payload for creating or updating a group.
type createRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=255"`
}

// ruleSetBrief is the embedded rule set summary in a group response.
type ruleSetBrief struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CanView   bool   `json:"can_view"`
	CanAdd    bool   `json:"can_add"`
	CanChange bool   `json:"can_change"`
	CanDelete bool   `json:"can_delete"`
}

// response is the serialized group record. RuleSets is only populated when
// role detail was requested.
type response struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	RuleSets    []ruleSetBrief `json:"rule_sets,omitempty"`
}

func serialize(g *models.Group, roleDetail bool) response {
	out := response{ID: g.ID, Name: g.Name, Description: g.Description}

	if roleDetail {
		out.RuleSets = make([]ruleSetBrief, 0, len(g.RuleSets))

		for _, rs := range g.RuleSets {
			out.RuleSets = append(out.RuleSets, ruleSetBrief{
				ID:        rs.ID,
				Name:      rs.Name,
				CanView:   rs.CanView,
				CanAdd:    rs.CanAdd,
				CanChange: rs.CanChange,
				CanDelete: rs.CanDelete,
			})
		}
	}

	return out
}

// List returns all groups, optionally filtered by a name search and
// expanded with their rule sets (?role_detail=true, the default).
func (s *Service) List(c *fiber.Ctx) error {
	roleDetail := c.Query("role_detail", "true") == "true"

	tx := s.db.Model(&models.Group{}).Order("name")

	if search := c.Query("search"); search != "" {
		tx = tx.Where("name LIKE ?", "%"+search+"%")
	}

	if roleDetail {
		tx = tx.Preload("RuleSets")
	}

	var groups []models.Group

	if err := tx.Find(&groups).Error; err != nil {
		log.Error().Err(err).Msg("query groups failed")

		return handler.InternalError(c)
	}

	out := make([]response, 0, len(groups))
	for i := range groups {
		out = append(out, serialize(&groups[i], roleDetail))
	}

	return c.JSON(out)
}

// Create creates a new group. Every resource category receives an
// all-false rule set alongside the group, so rule sets are never orphaned
// and never missing.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": "Malformed request body"})
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": err.Error()})
	}

	group := models.Group{Name: req.Name, Description: req.Description}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		for _, category := range auth.Categories {
			if err := tx.Create(&models.RuleSet{GroupID: group.ID, Name: category}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("create group failed")

		return handler.InternalError(c)
	}

	if err := s.db.Preload("RuleSets").First(&group, group.ID).Error; err != nil {
		log.Error().Err(err).Uint("group_id", group.ID).Msg("reload group failed")

		return handler.InternalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(serialize(&group, true))
}

// Detail returns a single group with its rule sets.
func (s *Service) Detail(c *fiber.Ctx) error {
	group, err := s.load(c, true)
	if err != nil {
		return handler.NotFound(c)
	}

	return c.JSON(serialize(group, true))
}

// Update modifies the name or description of a group.
func (s *Service) Update(c *fiber.Ctx) error {
	group, err := s.load(c, false)
	if err != nil {
		return handler.NotFound(c)
	}

	var req createRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": "Malformed request body"})
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": err.Error()})
	}

	group.Name = req.Name
	group.Description = req.Description

	if err := s.db.Save(group).Error; err != nil {
		log.Error().Err(err).Uint("group_id", group.ID).Msg("update group failed")

		return handler.InternalError(c)
	}

	return c.JSON(serialize(group, false))
}

// Delete removes a group. Its rule sets and memberships are removed with
// it via the CASCADE constraints.
func (s *Service) Delete(c *fiber.Ctx) error {
	group, err := s.load(c, false)
	if err != nil {
		return handler.NotFound(c)
	}

	if err := s.db.Select("RuleSets").Delete(group).Error; err != nil {
		log.Error().Err(err).Uint("group_id", group.ID).Msg("delete group failed")

		return handler.InternalError(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the group addressed by the :id path parameter.
func (s *Service) load(c *fiber.Ctx, withRuleSets bool) (*models.Group, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return nil, handler.ErrInvalidID
	}

	tx := s.db
	if withRuleSets {
		tx = tx.Preload("RuleSets")
	}

	var group models.Group

	if err := tx.First(&group, id).Error; err != nil {
		return nil, err
	}

	return &group, nil
}

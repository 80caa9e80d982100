// Package ruleset provides the accounts API endpoints for editing the
// per-group permission rule sets.
package ruleset

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

// Path is the base path for rule set management.
const Path = handler.APIRootPath + "/ruleset"

// Service provides list and edit operations for rule sets. Rule sets are
// created and destroyed alongside their owning group, so there is no
// create endpoint here.
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

// updateRequest carries the editable rule set fields. The (group, name)
// pair identifying a rule set is immutable.
type updateRequest struct {
	CanView   *bool `json:"can_view"`
	CanAdd    *bool `json:"can_add"`
	CanChange *bool `json:"can_change"`
	CanDelete *bool `json:"can_delete"`
}

// response is the serialized rule set record.
type response struct {
	ID        uint   `json:"id"`
	Group     uint   `json:"group"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	CanView   bool   `json:"can_view"`
	CanAdd    bool   `json:"can_add"`
	CanChange bool   `json:"can_change"`
	CanDelete bool   `json:"can_delete"`
}

func serialize(rs *models.RuleSet) response {
	return response{
		ID:        rs.ID,
		Group:     rs.GroupID,
		Name:      rs.Name,
		Label:     rs.Name,
		CanView:   rs.CanView,
		CanAdd:    rs.CanAdd,
		CanChange: rs.CanChange,
		CanDelete: rs.CanDelete,
	}
}

// List returns all rule sets, optionally filtered by group or category name.
func (s *Service) List(c *fiber.Ctx) error {
	tx := s.db.Model(&models.RuleSet{}).Order("group_id, name")

	if group := c.Query("group"); group != "" {
		tx = tx.Where("group_id = ?", group)
	}

	if name := c.Query("name"); name != "" {
		tx = tx.Where("name = ?", name)
	}

	var ruleSets []models.RuleSet

	if err := tx.Find(&ruleSets).Error; err != nil {
		log.Error().Err(err).Msg("query rule sets failed")

		return handler.InternalError(c)
	}

	out := make([]response, 0, len(ruleSets))
	for i := range ruleSets {
		out = append(out, serialize(&ruleSets[i]))
	}

	return c.JSON(out)
}

// Detail returns a single rule set.
func (s *Service) Detail(c *fiber.Ctx) error {
	ruleSet, err := s.load(c)
	if err != nil {
		return handler.NotFound(c)
	}

	return c.JSON(serialize(ruleSet))
}

// Update modifies the permission flags of a rule set.
func (s *Service) Update(c *fiber.Ctx) error {
	ruleSet, err := s.load(c)
	if err != nil {
		return handler.NotFound(c)
	}

	var req updateRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": "Malformed request body"})
	}

	if req.CanView != nil {
		ruleSet.CanView = *req.CanView
	}

	if req.CanAdd != nil {
		ruleSet.CanAdd = *req.CanAdd
	}

	if req.CanChange != nil {
		ruleSet.CanChange = *req.CanChange
	}

	if req.CanDelete != nil {
		ruleSet.CanDelete = *req.CanDelete
	}

	if err := s.db.Save(ruleSet).Error; err != nil {
		log.Error().Err(err).Uint("ruleset_id", ruleSet.ID).Msg("update rule set failed")

		return handler.InternalError(c)
	}

	return c.JSON(serialize(ruleSet))
}

// Delete removes a rule set. The affected group falls back to all-false
// permissions for the category.
func (s *Service) Delete(c *fiber.Ctx) error {
	ruleSet, err := s.load(c)
	if err != nil {
		return handler.NotFound(c)
	}

	if err := s.db.Delete(ruleSet).Error; err != nil {
		log.Error().Err(err).Uint("ruleset_id", ruleSet.ID).Msg("delete rule set failed")

		return handler.InternalError(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the rule set addressed by the :id path parameter.
func (s *Service) load(c *fiber.Ctx) (*models.RuleSet, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return nil, handler.ErrInvalidID
	}

	var ruleSet models.RuleSet

	if err := s.db.First(&ruleSet, id).Error; err != nil {
		return nil, err
	}

	return &ruleSet, nil
}

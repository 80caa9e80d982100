// Package user provides the accounts API endpoints for user management.
package user

import (
	"errors"
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

// Path is the base path for user management.
const Path = handler.APIRootPath

// Service provides CRUD operations for users.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	gate        *auth.Gate
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. The parameterized routes of this handler must be
// registered after every other /api/user handler so that fixed segments
// like /me or /roles are not captured by the :id parameter.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, gate *auth.Gate, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.gate = gate
	s.authService = authService
	s.validator = validator.New()

	// Routes
	app.Get(Path+"/me", auth.RequireAuthenticated(gate), s.Me)
	app.Put(Path+"/me", auth.RequireAuthenticated(gate), s.UpdateMe)
	app.Patch(Path+"/me", auth.RequireAuthenticated(gate), s.UpdateMe)

	app.Get(Path+"/profile", auth.RequireAuthenticated(gate), s.Profile)
	app.Put(Path+"/profile", auth.RequireAuthenticated(gate), s.UpdateProfile)
	app.Patch(Path+"/profile", auth.RequireAuthenticated(gate), s.UpdateProfile)

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
	app.Post(Path+"/:id<int>/set-password",
		auth.RequireSuperuser(gate),
		s.SetPassword,
	)
}

// List returns all user records, with optional text search and flag filters.
func (s *Service) List(c *fiber.Ctx) error {
	tx := s.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		tx = tx.Where("username LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	for _, flag := range []string{"is_staff", "is_superuser", "is_active"} {
		if v := c.Query(flag); v != "" {
			column := flag
			if flag == "is_active" {
				column = "active"
			}

			tx = tx.Where(column+" = ?", v == "true" || v == "1")
		}
	}

	var users []models.User

	if err := tx.Order("id").Find(&users).Error; err != nil {
		log.Error().Err(err).Msg("query users failed")

		return handler.InternalError(c)
	}

	out := make([]response, 0, len(users))

	for i := range users {
		groups, err := s.authService.GetUserGroups(users[i].ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", users[i].ID).Msg("load user groups failed")

			return handler.InternalError(c)
		}

		out = append(out, serialize(&users[i], groups))
	}

	return c.JSON(out)
}

// Create creates a new user account.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": "Malformed request body"})
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": err.Error()})
	}

	// Only superusers may create superuser or staff accounts.
	actor := auth.CurrentActor(c)
	if (req.IsSuperuser || req.IsStaff) && !actor.IsSuperuser() {
		if ok, resp := auth.HandleGateError(c, auth.ErrPermissionDenied); !ok {
			return resp
		}
	}

	user := models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    models.HashPassword(req.Password),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
		Active:      true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return handler.BadRequest(c, fiber.Map{"username": "A user with that username already exists."})
		}

		log.Error().Err(err).Msg("create user failed")

		return handler.InternalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(serialize(&user, nil))
}

// Detail returns a single user record.
func (s *Service) Detail(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return handler.NotFound(c)
	}

	groups, err := s.authService.GetUserGroups(user.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("load user groups failed")

		return handler.InternalError(c)
	}

	return c.JSON(serialize(user, groups))
}

// Update modifies a user record.
func (s *Service) Update(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return handler.NotFound(c)
	}

	var req updateRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": "Malformed request body"})
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": err.Error()})
	}

	// Changing the superuser flag requires superuser rights, it can never
	// be granted through rule sets.
	actor := auth.CurrentActor(c)
	if req.IsSuperuser != nil && *req.IsSuperuser != user.IsSuperuser && !actor.IsSuperuser() {
		if ok, resp := auth.HandleGateError(c, auth.ErrPermissionDenied); !ok {
			return resp
		}
	}

	applyUpdate(user, &req)

	if err := s.db.Save(user).Error; err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("update user failed")

		return handler.InternalError(c)
	}

	groups, _ := s.authService.GetUserGroups(user.ID)

	return c.JSON(serialize(user, groups))
}

// Delete soft-deletes a user record.
func (s *Service) Delete(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return handler.NotFound(c)
	}

	if err := s.db.Delete(user).Error; err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("delete user failed")

		return handler.InternalError(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// load fetches the user addressed by the :id path parameter.
func (s *Service) load(c *fiber.Ctx) (*models.User, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, handler.ErrInvalidID
	}

	var user models.User

	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// applyUpdate copies the set fields of an update request onto the record.
func applyUpdate(user *models.User, req *updateRequest) {
	if req.Email != nil {
		user.Email = *req.Email
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}

	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}

	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}

	if req.Active != nil {
		user.Active = *req.Active
	}
}

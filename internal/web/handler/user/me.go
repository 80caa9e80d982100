package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler"
)

// Me returns the current user record.
func (s *Service) Me(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	groups, err := s.authService.GetUserGroups(actor.User.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", actor.User.ID).Msg("load user groups failed")

		return handler.InternalError(c)
	}

	return c.JSON(serialize(actor.User, groups))
}

// UpdateMe lets the current user edit their own identity record. Self-edit
// bypasses the general permission gate: it works for non-staff users with
// no role permissions at all. Only a subset of fields is exposed here.
func (s *Service) UpdateMe(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	if ok, resp := auth.HandleGateError(c, s.gate.AuthorizeSelf(actor, actor.User.ID, auth.ActionChange)); !ok {
		return resp
	}

	var req meRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": "Malformed request body"})
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": err.Error()})
	}

	user := actor.User

	if req.Email != nil {
		user.Email = *req.Email
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}

	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.db.Save(user).Error; err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("update own profile failed")

		return handler.InternalError(c)
	}

	groups, _ := s.authService.GetUserGroups(user.ID)

	return c.JSON(serialize(user, groups))
}

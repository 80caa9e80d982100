package user

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler"
)

// minPasswordLength is the password policy minimum.
const minPasswordLength = 8

// SetPassword force-sets the password of the addressed user. The route is
// guarded by the superuser-only gate. The password policy is enforced
// unless the override flag is set, violations carry a field-level message.
func (s *Service) SetPassword(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return handler.NotFound(c)
	}

	var req setPasswordRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": "Malformed request body"})
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"password": "This field is required."})
	}

	if !req.OverrideWarning {
		if msg := validatePassword(req.Password, user); msg != "" {
			return handler.BadRequest(c, fiber.Map{"password": msg})
		}
	}

	user.Password = models.HashPassword(req.Password)

	if err := s.db.Save(user).Error; err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("set password failed")

		return handler.InternalError(c)
	}

	log.Info().Uint64("user_id", user.ID).Msg("password set by superuser")

	return c.JSON(fiber.Map{"success": true})
}

// validatePassword applies the password policy. It returns an empty string
// when the password is acceptable, otherwise the message for the caller.
func validatePassword(password string, user *models.User) string {
	if len(password) < minPasswordLength {
		return "This password is too short. It must contain at least 8 characters."
	}

	if strings.EqualFold(password, user.Username) {
		return "The password is too similar to the username."
	}

	return ""
}

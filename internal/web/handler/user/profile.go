package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/web/handler"
)

// profileRequest is the payload for updating the own profile.
type profileRequest struct {
	DisplayName  *string `json:"displayname" validate:"omitempty,max=255"`
	Position     *string `json:"position" validate:"omitempty,max=255"`
	Status       *string `json:"status" validate:"omitempty,max=255"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	Contact      *string `json:"contact" validate:"omitempty,max=255"`
	Type         *string `json:"type" validate:"omitempty,oneof=internal external guest bot"`
	Organisation *string `json:"organisation" validate:"omitempty,max=255"`
}

// profileResponse is the serialized profile record.
type profileResponse struct {
	User         uint64 `json:"user"`
	DisplayName  string `json:"displayname"`
	Position     string `json:"position"`
	Status       string `json:"status"`
	Location     string `json:"location"`
	Contact      string `json:"contact"`
	Type         string `json:"type"`
	Organisation string `json:"organisation"`
}

func serializeProfile(p *models.UserProfile) profileResponse {
	return profileResponse{
		User:         p.UserID,
		DisplayName:  p.DisplayName,
		Position:     p.Position,
		Status:       p.Status,
		Location:     p.Location,
		Contact:      p.Contact,
		Type:         p.Type,
		Organisation: p.Organisation,
	}
}

// Profile returns the current user's profile, creating an empty one on
// first access. Profiles are strictly self-scoped, there is no way to
// address another user's profile here.
func (s *Service) Profile(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	profile, err := s.loadProfile(actor.User.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", actor.User.ID).Msg("load profile failed")

		return handler.InternalError(c)
	}

	return c.JSON(serializeProfile(profile))
}

// UpdateProfile modifies the current user's profile.
func (s *Service) UpdateProfile(c *fiber.Ctx) error {
	actor := auth.CurrentActor(c)

	profile, err := s.loadProfile(actor.User.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", actor.User.ID).Msg("load profile failed")

		return handler.InternalError(c)
	}

	var req profileRequest

	if err := c.BodyParser(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": "Malformed request body"})
	}

	if err := s.validator.Struct(&req); err != nil {
		return handler.BadRequest(c, fiber.Map{"detail": err.Error()})
	}

	applyProfileUpdate(profile, &req)

	if err := s.db.Save(profile).Error; err != nil {
		log.Error().Err(err).Uint64("user_id", actor.User.ID).Msg("update profile failed")

		return handler.InternalError(c)
	}

	return c.JSON(serializeProfile(profile))
}

// loadProfile fetches the profile for a user, creating it if missing.
func (s *Service) loadProfile(userID uint64) (*models.UserProfile, error) {
	profile := models.UserProfile{UserID: userID, Type: "internal"}

	err := s.db.Where("user_id = ?", userID).FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func applyProfileUpdate(profile *models.UserProfile, req *profileRequest) {
	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}

	if req.Position != nil {
		profile.Position = *req.Position
	}

	if req.Status != nil {
		profile.Status = *req.Status
	}

	if req.Location != nil {
		profile.Location = *req.Location
	}

	if req.Contact != nil {
		profile.Contact = *req.Contact
	}

	if req.Type != nil {
		profile.Type = *req.Type
	}

	if req.Organisation != nil {
		profile.Organisation = *req.Organisation
	}
}

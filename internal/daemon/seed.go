package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInventory-Admin/GoInventory-Admin/internal/auth"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/config"
	"github.com/GoInventory-Admin/GoInventory-Admin/internal/db/models"
)

// seed creates the initial admin account and group on an empty database.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64

	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		admin := models.User{
			Username:    "admin",
			Password:    models.HashPassword("changeme"),
			Active:      true,
			IsStaff:     true,
			IsSuperuser: true,
		}

		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		group := models.Group{Name: "admins", Description: "Full access to every resource category"}

		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		for _, category := range auth.Categories {
			ruleSet := models.RuleSet{
				GroupID:   group.ID,
				Name:      category,
				CanView:   true,
				CanAdd:    true,
				CanChange: true,
				CanDelete: true,
			}

			if err := tx.Create(&ruleSet).Error; err != nil {
				return err
			}
		}

		return tx.Create(&models.UserGroup{UserID: admin.ID, GroupID: group.ID}).Error
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed initial data")
	}

	log.Info().Msg("seeded initial admin account (username: admin, password: changeme)")
}

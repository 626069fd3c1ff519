package config

import (
	"carserv-backend/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema. Invoked only via the -migrate
// flag; starting the server never touches the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.Booking{},
		&models.LoyaltyAccount{},
		&models.ReminderLog{},
	)
}

package services

import (
	"fmt"
	"testing"

	"carserv-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test named in-memory database. A single open
// connection serializes sqlite writers, so concurrent workflow calls
// exercise the conflict handling without busy errors.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.Booking{},
		&models.LoyaltyAccount{},
		&models.ReminderLog{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedService inserts a catalog entry and returns its id.
func seedService(t *testing.T, db *gorm.DB, name string, price float64) uint {
	t.Helper()
	service := models.Service{Name: name, Category: "General", Price: price, IsActive: true}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return service.ID
}

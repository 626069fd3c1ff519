package services

import (
	"context"
	"errors"

	"carserv-backend/models"

	"gorm.io/gorm"
)

// Catalog is the read-only view of offered services consumed by the
// booking workflow. Entries are managed through the staff routes.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// GetByID returns an offered service. A retired (inactive) entry is
// not bookable and is reported the same as a missing one.
func (cat *Catalog) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	err := cat.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&service, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// List returns all offered services.
func (cat *Catalog) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := cat.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category, name").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

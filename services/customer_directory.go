package services

import (
	"context"
	"errors"

	"carserv-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerDirectory is the lookup-or-create abstraction over customer
// records. Uniqueness on email is enforced here, at the storage layer,
// so two concurrent creations for the same address can never produce
// two rows.
type CustomerDirectory struct {
	db *gorm.DB
}

func NewCustomerDirectory(db *gorm.DB) *CustomerDirectory {
	return &CustomerDirectory{db: db}
}

// FindByEmailOrPhone looks a customer up by either contact key.
// Returns (nil, nil) when absent.
func (d *CustomerDirectory) FindByEmailOrPhone(ctx context.Context, key string) (*models.Customer, error) {
	var customer models.Customer
	err := d.db.WithContext(ctx).
		Where("email = ? OR phone = ?", key, key).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByID fetches a customer or returns ErrCustomerNotFound.
func (d *CustomerDirectory) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := d.db.WithContext(ctx).First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create inserts the customer, or returns the existing row when the
// email is already registered. The insert-or-fetch is a single
// ON CONFLICT DO NOTHING statement against the unique email index, not
// a read-then-write in application code. The boolean reports whether
// the insert won; callers that treat an existing email as a conflict
// check it instead of pre-reading.
func (d *CustomerDirectory) Create(ctx context.Context, customer *models.Customer) (*models.Customer, bool, error) {
	res := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(customer)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race or the email already existed; reuse that row.
		var existing models.Customer
		if err := d.db.WithContext(ctx).
			Where("email = ?", customer.Email).
			First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	return customer, true, nil
}

// List returns all active customers.
func (d *CustomerDirectory) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"carserv-backend/models"
	"carserv-backend/utils"

	"gorm.io/gorm"
)

// tokenAttachAttempts bounds the mint-and-attach retry loop. A
// collision means 64 random bits matched an existing token, so one
// retry with fresh entropy is already generous.
const tokenAttachAttempts = 3

// Minter is the token contract the workflow depends on. *TokenMinter
// is the production implementation.
type Minter interface {
	Mint(bookingID uint, salt []byte) string
	Encode(token string) ([]byte, error)
}

// BookingService orchestrates booking creation: validate and normalize
// the input, resolve or create the customer, verify the service, insert
// the booking in the pending state, then mint and attach its token.
type BookingService struct {
	db        *gorm.DB
	customers *CustomerDirectory
	catalog   *Catalog
	minter    Minter
}

func NewBookingService(db *gorm.DB, customers *CustomerDirectory, catalog *Catalog, minter Minter) *BookingService {
	return &BookingService{db: db, customers: customers, catalog: catalog, minter: minter}
}

// CreateBookingInput is the validated request shape for the booking
// workflow. Either CustomerID or the inline identity fields (name +
// email, phone optional) must be present.
type CreateBookingInput struct {
	CustomerID *uint  `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`

	ServiceID    uint     `json:"serviceId" binding:"required"`
	VehiclePlate string   `json:"vehiclePlate" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	Postcode     string   `json:"postcode"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

// validate checks every supplied field against its grammar and rewrites
// normalizable ones into canonical form. Nothing is persisted until
// this passes.
func (in *CreateBookingInput) validate() *ValidationError {
	if in.CustomerID == nil {
		if strings.TrimSpace(in.Email) == "" {
			return invalid("email", "required when no customerId is given")
		}
		if !utils.ValidateEmail(in.Email) {
			return invalid("email", "not a valid email address")
		}
		if strings.TrimSpace(in.Name) == "" {
			return invalid("name", "required when no customerId is given")
		}
	}
	if in.Phone != "" && !utils.ValidatePhone(in.Phone) {
		return invalid("phone", "not a valid phone number")
	}
	if in.ServiceID == 0 {
		return invalid("serviceId", "required")
	}

	in.VehiclePlate = utils.NormalizePlate(in.VehiclePlate)
	if !utils.ValidatePlate(in.VehiclePlate) {
		return invalid("vehiclePlate", "must be two letters, two digits, three letters")
	}

	if strings.TrimSpace(in.Address) == "" {
		return invalid("address", "required")
	}
	if in.Postcode != "" {
		if !utils.ValidatePostcode(in.Postcode) {
			return invalid("postcode", "not a valid postcode")
		}
		in.Postcode = strings.ToUpper(strings.TrimSpace(in.Postcode))
	}

	if (in.Lat == nil) != (in.Lng == nil) {
		return invalid("coordinates", "lat and lng must be supplied together")
	}
	if in.Lat != nil && !utils.ValidateCoordinates(*in.Lat, *in.Lng) {
		return invalid("coordinates", "out of range")
	}
	return nil
}

// CreateBooking runs the workflow end to end and returns the booking
// with its token attached. On ErrTokenPending the booking has committed
// with an empty token; callers must still report it as created.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	if verr := input.validate(); verr != nil {
		return nil, verr
	}

	// Resolve the customer by lookup first; creation waits until the
	// service reference has been verified so a bad serviceId leaves no
	// rows behind.
	customer, err := s.lookupCustomer(ctx, &input)
	if err != nil {
		return nil, err
	}

	service, err := s.catalog.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}

	if customer == nil {
		// Create races with identical concurrent requests; the
		// directory resolves the race and hands back whichever row won.
		customer, _, err = s.customers.Create(ctx, &models.Customer{
			Name:         input.Name,
			Email:        input.Email,
			Phone:        input.Phone,
			VehiclePlate: input.VehiclePlate,
			Address:      input.Address,
			IsActive:     true,
		})
		if err != nil {
			return nil, err
		}
	}

	booking := &models.Booking{
		CustomerID:   customer.ID,
		ServiceID:    service.ID,
		VehiclePlate: input.VehiclePlate,
		Address:      input.Address,
		Postcode:     input.Postcode,
		Lat:          input.Lat,
		Lng:          input.Lng,
		Status:       models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}

	// The booking is committed from here on. Attaching the token is a
	// separate statement so a unique-index collision can be retried
	// with fresh entropy instead of failing the booking.
	if err := s.attachToken(ctx, booking); err != nil {
		return booking, ErrTokenPending
	}
	return booking, nil
}

// lookupCustomer resolves an existing customer without creating one.
// Returns (nil, nil) when the inline identity is previously unseen.
func (s *BookingService) lookupCustomer(ctx context.Context, input *CreateBookingInput) (*models.Customer, error) {
	if input.CustomerID != nil {
		return s.customers.GetByID(ctx, *input.CustomerID)
	}
	return s.customers.FindByEmailOrPhone(ctx, input.Email)
}

func (s *BookingService) attachToken(ctx context.Context, booking *models.Booking) error {
	var lastErr error
	for attempt := 0; attempt < tokenAttachAttempts; attempt++ {
		token := s.minter.Mint(booking.ID, NewSalt())
		err := s.db.WithContext(ctx).
			Model(booking).
			Update("token", token).Error
		if err == nil {
			booking.Token = token
			return nil
		}
		lastErr = err
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return lastErr
}

// GetByID returns a booking with its customer and service joined in.
func (s *BookingService) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// List returns all bookings, newest first, joined with customer and
// service for display.
func (s *BookingService) List(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// QRCode renders the booking's token as a PNG.
func (s *BookingService) QRCode(ctx context.Context, id uint) ([]byte, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Token == "" {
		return nil, ErrTokenPending
	}
	return s.minter.Encode(booking.Token)
}

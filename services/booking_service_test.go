package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"carserv-backend/models"

	"gorm.io/gorm"
)

func newBookingService(db *gorm.DB) *BookingService {
	return NewBookingService(db, NewCustomerDirectory(db), NewCatalog(db), NewTokenMinter())
}

func aliceInput(serviceID uint) CreateBookingInput {
	return CreateBookingInput{
		Name:         "Alice",
		Email:        "alice@example.com",
		Phone:        "07123456789",
		ServiceID:    serviceID,
		VehiclePlate: "ab12 cde",
		Address:      "10 High St",
		Postcode:     "ME1 1AA",
	}
}

func TestCreateBooking(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	serviceID := seedService(t, db, "Oil Change", 49.99)

	booking, err := svc.CreateBooking(context.Background(), aliceInput(serviceID))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if booking.Status != models.StatusPending {
		t.Errorf("status = %q, want %q", booking.Status, models.StatusPending)
	}
	if booking.VehiclePlate != "AB12CDE" {
		t.Errorf("plate = %q, want canonical AB12CDE", booking.VehiclePlate)
	}
	if booking.Token == "" {
		t.Fatal("booking has no token")
	}
	if id, err := DecodeToken(booking.Token); err != nil || id != booking.ID {
		t.Errorf("token decodes to %d (err %v), want booking id %d", id, err, booking.ID)
	}

	var customer models.Customer
	if err := db.Where("email = ?", "alice@example.com").First(&customer).Error; err != nil {
		t.Fatalf("customer row missing: %v", err)
	}
	if customer.Name != "Alice" {
		t.Errorf("customer name = %q", customer.Name)
	}
	if booking.CustomerID != customer.ID {
		t.Errorf("booking references customer %d, want %d", booking.CustomerID, customer.ID)
	}
}

func TestCreateBookingReusesCustomer(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	serviceID := seedService(t, db, "Oil Change", 49.99)

	first, err := svc.CreateBooking(context.Background(), aliceInput(serviceID))
	if err != nil {
		t.Fatalf("first CreateBooking: %v", err)
	}

	second := aliceInput(serviceID)
	second.VehiclePlate = "CD34 EFG"
	second.Address = "22 Station Rd"
	got, err := svc.CreateBooking(context.Background(), second)
	if err != nil {
		t.Fatalf("second CreateBooking: %v", err)
	}

	if got.CustomerID != first.CustomerID {
		t.Errorf("second booking resolved customer %d, want %d", got.CustomerID, first.CustomerID)
	}

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	if count != 1 {
		t.Errorf("customer rows = %d, want 1", count)
	}
}

func TestCreateBookingBadPlate(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	serviceID := seedService(t, db, "Oil Change", 49.99)

	for _, plate := range []string{"ABCDEFG", "AB1 CD", ""} {
		input := aliceInput(serviceID)
		input.VehiclePlate = plate

		_, err := svc.CreateBooking(context.Background(), input)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("plate %q: got %v, want ValidationError", plate, err)
		}
		if verr.Field != "vehiclePlate" {
			t.Errorf("plate %q: field = %q", plate, verr.Field)
		}
	}

	var customers, bookings int64
	db.Model(&models.Customer{}).Count(&customers)
	db.Model(&models.Booking{}).Count(&bookings)
	if customers != 0 || bookings != 0 {
		t.Errorf("rows written on validation failure: %d customers, %d bookings", customers, bookings)
	}
}

func TestCreateBookingUnknownService(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	seedService(t, db, "Oil Change", 49.99)

	input := aliceInput(999)
	_, err := svc.CreateBooking(context.Background(), input)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("got %v, want ErrServiceNotFound", err)
	}

	var customers, bookings int64
	db.Model(&models.Customer{}).Count(&customers)
	db.Model(&models.Booking{}).Count(&bookings)
	if customers != 0 || bookings != 0 {
		t.Errorf("rows written on unknown service: %d customers, %d bookings", customers, bookings)
	}
}

func TestCreateBookingUnknownCustomerID(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	serviceID := seedService(t, db, "Oil Change", 49.99)

	missing := uint(404)
	input := CreateBookingInput{
		CustomerID:   &missing,
		ServiceID:    serviceID,
		VehiclePlate: "AB12CDE",
		Address:      "10 High St",
	}
	if _, err := svc.CreateBooking(context.Background(), input); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("got %v, want ErrCustomerNotFound", err)
	}
}

func TestCreateBookingCoordinateRules(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	serviceID := seedService(t, db, "Oil Change", 49.99)

	lat := 51.38
	input := aliceInput(serviceID)
	input.Lat = &lat // lng missing

	_, err := svc.CreateBooking(context.Background(), input)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "coordinates" {
		t.Fatalf("got %v, want coordinates ValidationError", err)
	}

	lng := 0.52
	input.Lng = &lng
	booking, err := svc.CreateBooking(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateBooking with both coordinates: %v", err)
	}
	if booking.Lat == nil || *booking.Lat != lat {
		t.Errorf("lat not persisted")
	}
}

// replayMinter hands out a fixed existing token for a set number of
// mint attempts before delegating to the real minter. Lets tests force
// the unique-index collision the retry loop exists for.
type replayMinter struct {
	real   *TokenMinter
	token  string
	replay int
}

func (m *replayMinter) Mint(bookingID uint, salt []byte) string {
	if m.replay > 0 {
		m.replay--
		return m.token
	}
	return m.real.Mint(bookingID, salt)
}

func (m *replayMinter) Encode(token string) ([]byte, error) {
	return m.real.Encode(token)
}

func TestCreateBookingRetriesTokenCollision(t *testing.T) {
	db := newTestDB(t)
	serviceID := seedService(t, db, "Oil Change", 49.99)

	real := NewTokenMinter()
	first, err := NewBookingService(db, NewCustomerDirectory(db), NewCatalog(db), real).
		CreateBooking(context.Background(), aliceInput(serviceID))
	if err != nil {
		t.Fatalf("first CreateBooking: %v", err)
	}

	// The next booking's first mint collides with the existing token.
	minter := &replayMinter{real: real, token: first.Token, replay: 1}
	svc := NewBookingService(db, NewCustomerDirectory(db), NewCatalog(db), minter)

	input := aliceInput(serviceID)
	input.Email = "bob@example.com"
	second, err := svc.CreateBooking(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateBooking despite collision: %v", err)
	}

	if minter.replay != 0 {
		t.Fatal("colliding mint was never attempted")
	}
	if second.Token == "" || second.Token == first.Token {
		t.Errorf("token = %q, want a fresh token distinct from %q", second.Token, first.Token)
	}
	if id, err := DecodeToken(second.Token); err != nil || id != second.ID {
		t.Errorf("retried token decodes to %d (err %v), want %d", id, err, second.ID)
	}
}

func TestCreateBookingSurvivesTokenAttachFailure(t *testing.T) {
	db := newTestDB(t)
	serviceID := seedService(t, db, "Oil Change", 49.99)

	real := NewTokenMinter()
	first, err := NewBookingService(db, NewCustomerDirectory(db), NewCatalog(db), real).
		CreateBooking(context.Background(), aliceInput(serviceID))
	if err != nil {
		t.Fatalf("first CreateBooking: %v", err)
	}

	// Every mint attempt collides, so the attach exhausts its retries.
	minter := &replayMinter{real: real, token: first.Token, replay: tokenAttachAttempts}
	svc := NewBookingService(db, NewCustomerDirectory(db), NewCatalog(db), minter)

	input := aliceInput(serviceID)
	input.Email = "bob@example.com"
	booking, err := svc.CreateBooking(context.Background(), input)
	if !errors.Is(err, ErrTokenPending) {
		t.Fatalf("got %v, want ErrTokenPending", err)
	}
	if booking == nil || booking.ID == 0 {
		t.Fatal("booking not returned alongside ErrTokenPending")
	}

	// The booking committed with an empty token, never dropped.
	var row models.Booking
	if err := db.First(&row, booking.ID).Error; err != nil {
		t.Fatalf("booking row missing: %v", err)
	}
	if row.Token != "" {
		t.Errorf("token = %q, want empty pending attach", row.Token)
	}
	if row.Status != models.StatusPending {
		t.Errorf("status = %q", row.Status)
	}
}

func TestConcurrentBookingsOneCustomer(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	serviceID := seedService(t, db, "Oil Change", 49.99)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), aliceInput(serviceID))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	var customers, bookings int64
	db.Model(&models.Customer{}).Count(&customers)
	db.Model(&models.Booking{}).Count(&bookings)
	if customers != 1 {
		t.Errorf("customer rows = %d, want exactly 1", customers)
	}
	if bookings != n {
		t.Errorf("booking rows = %d, want %d", bookings, n)
	}

	var tokens []string
	db.Model(&models.Booking{}).Pluck("token", &tokens)
	seen := make(map[string]bool)
	for _, token := range tokens {
		if token == "" {
			t.Error("booking left without token")
		}
		if seen[token] {
			t.Errorf("duplicate token %q", token)
		}
		seen[token] = true
	}
}

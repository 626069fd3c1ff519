// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"carserv-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService sends booking SMS messages: a confirmation when a
// booking is created and a daily nudge for jobs still pending after a
// day. Disabled entirely when Twilio credentials are absent.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	from   string
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	var client *twilio.RestClient
	if accountSid != "" && authToken != "" {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
	}

	return &ReminderService{
		db:     db,
		client: client,
		from:   os.Getenv("TWILIO_FROM_NUMBER"),
	}
}

// Enabled reports whether SMS sending is configured.
func (s *ReminderService) Enabled() bool {
	return s.client != nil && s.from != ""
}

// StartScheduler wires the daily pending-booking sweep. Runs every day
// at 9 AM.
func (s *ReminderService) StartScheduler() *cron.Cron {
	c := cron.New()
	c.AddFunc("0 9 * * *", s.SendPendingReminders)
	c.Start()
	log.Println("Reminder scheduler started")
	return c
}

// SendConfirmation notifies the customer that their booking was
// received. Failures are logged, never propagated to the booking call.
func (s *ReminderService) SendConfirmation(booking *models.Booking, customer *models.Customer, serviceName string) {
	if !s.Enabled() || customer.Phone == "" {
		return
	}
	message := fmt.Sprintf(
		"Hi %s, your %s booking for %s is confirmed. Show the QR code from your booking page on arrival.",
		customer.Name, serviceName, booking.VehiclePlate)
	s.send(booking, customer, "confirmation", message)
}

// SendCompletion tells the customer their job is done and their visit
// counted. Failures are logged, never propagated to the transition.
func (s *ReminderService) SendCompletion(booking *models.Booking, customer *models.Customer, serviceName string) {
	if !s.Enabled() || customer.Phone == "" {
		return
	}
	message := fmt.Sprintf(
		"Hi %s, the %s on %s is complete. Your visit has been added to your loyalty balance.",
		customer.Name, serviceName, booking.VehiclePlate)
	s.send(booking, customer, "completion", message)
}

// SendPendingReminders nudges customers whose bookings have sat in
// pending for more than 24 hours.
func (s *ReminderService) SendPendingReminders() {
	log.Println("Starting pending booking reminder sweep...")

	cutoff := time.Now().Add(-24 * time.Hour)
	var bookings []models.Booking
	if err := s.db.Preload("Customer").Preload("Service").
		Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Find(&bookings).Error; err != nil {
		log.Printf("Failed to fetch pending bookings: %v", err)
		return
	}

	for i := range bookings {
		b := &bookings[i]
		if b.Customer.Phone == "" {
			continue
		}
		// Skip if we already nudged this booking.
		var count int64
		s.db.Model(&models.ReminderLog{}).
			Where("booking_id = ? AND type = ? AND status = ?", b.ID, "pending-nudge", "sent").
			Count(&count)
		if count > 0 {
			continue
		}
		message := fmt.Sprintf(
			"Hi %s, your %s booking is still waiting to be scheduled. We'll be in touch shortly.",
			b.Customer.Name, b.Service.Name)
		s.send(b, &b.Customer, "pending-nudge", message)
	}

	log.Println("Pending booking reminder sweep completed")
}

func (s *ReminderService) send(booking *models.Booking, customer *models.Customer, kind, message string) {
	entry := models.ReminderLog{
		BookingID:  booking.ID,
		CustomerID: customer.ID,
		Type:       kind,
		Message:    message,
		Channel:    "sms",
		SentAt:     time.Now(),
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(customer.Phone)
	params.SetFrom(s.from)
	params.SetBody(message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		log.Printf("Booking %d: failed to send %s SMS: %v", booking.ID, kind, err)
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	} else {
		entry.Status = "sent"
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Booking %d: failed to log reminder: %v", booking.ID, err)
	}
}

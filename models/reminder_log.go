// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingID  uint      `gorm:"index;not null" json:"bookingId"`
	CustomerID uint      `gorm:"index;not null" json:"customerId"`

	Type         string `gorm:"type:varchar(20)" json:"type"` // confirmation, completion, pending-nudge
	Message      string `gorm:"type:text" json:"message"`
	Status       string `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel      string `gorm:"type:varchar(20)" json:"channel"` // sms

	SentAt time.Time `json:"sentAt"`

	gorm.Model `json:"-"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}

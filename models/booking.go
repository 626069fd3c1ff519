package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses. A booking is created as pending and moves through
// the job lifecycle from there; only pending bookings may be cancelled.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint     `gorm:"index;not null" json:"customerId"`
	Customer   Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ServiceID  uint     `gorm:"index;not null" json:"serviceId"`
	Service    Service  `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	// Canonical form: uppercase, no whitespace.
	VehiclePlate string `gorm:"not null" json:"vehiclePlate"`
	Address      string `gorm:"not null" json:"address"`
	Postcode     string `json:"postcode,omitempty"`

	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`

	Status string `gorm:"type:varchar(20);default:'pending';check:chk_bookings_status,status IN ('pending','in-progress','completed','cancelled')" json:"status"`

	// Assigned right after insert; empty only if the attach step failed
	// and is awaiting retry.
	Token string `gorm:"uniqueIndex:idx_bookings_token,where:token <> ''" json:"token"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanTransition reports whether the job lifecycle permits moving this
// booking to the given status. Re-starting an in-progress job is allowed
// so staff can reset a stalled one.
func (b *Booking) CanTransition(to string) bool {
	switch to {
	case StatusInProgress:
		return b.Status == StatusPending || b.Status == StatusInProgress
	case StatusCompleted:
		return b.Status == StatusInProgress
	case StatusCancelled:
		return b.Status == StatusPending
	default:
		return false
	}
}

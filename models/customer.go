package models

import (
	"time"

	"gorm.io/gorm"
)

type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Phone string `json:"phone"`

	// Default vehicle and address, copied onto bookings when the
	// request omits them.
	VehiclePlate string `json:"vehiclePlate"`
	Address      string `json:"address"`

	TotalVisits int  `gorm:"default:0" json:"totalVisits"`
	IsActive    bool `gorm:"default:true" json:"isActive"`

	Loyalty  *LoyaltyAccount `gorm:"foreignKey:CustomerID" json:"loyalty,omitempty"`
	Bookings []Booking       `gorm:"foreignKey:CustomerID" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

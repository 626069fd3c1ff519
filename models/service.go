package models

type Service struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Category    string  `gorm:"default:'General'" json:"category"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string  `json:"description"`
	Duration    int     `json:"duration"` // in minutes
	IsActive    bool    `gorm:"default:true" json:"isActive"`

	Bookings []Booking `gorm:"foreignKey:ServiceID" json:"-"`
}

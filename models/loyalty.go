package models

import "time"

// LoyaltyAccount tracks completed visits per customer. Created lazily
// on the first completed job, never by booking creation.
type LoyaltyAccount struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	CustomerID uint `gorm:"uniqueIndex;not null" json:"customerId"`

	Visits         int  `gorm:"default:0" json:"visits"`
	RewardEligible bool `gorm:"default:false" json:"rewardEligible"`

	UpdatedAt time.Time `json:"updatedAt"`
}

package services

import (
	"context"
	"errors"
	"os"
	"strconv"

	"carserv-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultRewardThreshold = 5

// JobService drives a booking through its lifecycle after creation:
// start, complete, cancel. Completion is what feeds the customer's
// loyalty account.
type JobService struct {
	db              *gorm.DB
	rewardThreshold int
}

func NewJobService(db *gorm.DB) *JobService {
	threshold := defaultRewardThreshold
	if env := os.Getenv("LOYALTY_REWARD_THRESHOLD"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			threshold = n
		}
	}
	return &JobService{db: db, rewardThreshold: threshold}
}

// Start moves a pending booking to in-progress. Re-starting an
// in-progress job is permitted.
func (s *JobService) Start(ctx context.Context, bookingID uint) (*models.Booking, error) {
	return s.transition(ctx, bookingID, models.StatusInProgress)
}

// Cancel drops a pending booking.
func (s *JobService) Cancel(ctx context.Context, bookingID uint) (*models.Booking, error) {
	return s.transition(ctx, bookingID, models.StatusCancelled)
}

// Complete finishes an in-progress job and credits the customer's
// loyalty account in the same transaction.
func (s *JobService) Complete(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if !booking.CanTransition(models.StatusCompleted) {
			return ErrInvalidTransition
		}
		booking.Status = models.StatusCompleted
		if err := tx.Model(&booking).Update("status", booking.Status).Error; err != nil {
			return err
		}
		return s.creditVisit(tx, booking.CustomerID)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *JobService) transition(ctx context.Context, bookingID uint, to string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if !booking.CanTransition(to) {
			return ErrInvalidTransition
		}
		booking.Status = to
		return tx.Model(&booking).Update("status", to).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// creditVisit lazily creates the loyalty account and bumps both the
// account and the customer's visit counter.
func (s *JobService) creditVisit(tx *gorm.DB, customerID uint) error {
	account := models.LoyaltyAccount{CustomerID: customerID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}},
		DoNothing: true,
	}).Create(&account).Error; err != nil {
		return err
	}

	if err := tx.Where("customer_id = ?", customerID).First(&account).Error; err != nil {
		return err
	}
	account.Visits++
	account.RewardEligible = account.Visits >= s.rewardThreshold
	if err := tx.Save(&account).Error; err != nil {
		return err
	}

	return tx.Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("total_visits", gorm.Expr("total_visits + 1")).Error
}

// Loyalty returns the customer's loyalty account, or a zero-visit view
// when no job has completed yet.
func (s *JobService) Loyalty(ctx context.Context, customerID uint) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.LoyaltyAccount{CustomerID: customerID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

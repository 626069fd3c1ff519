package controllers

import (
	"context"
	"errors"
	"net/http"

	"carserv-backend/models"
	"carserv-backend/services"
	"carserv-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings  *services.BookingService
	Jobs      *services.JobService
	Reminders *services.ReminderService
}

// CreateBooking runs the booking workflow. Responds 201 with the
// booking and its token; if the token attach is still pending the
// booking is reported as created anyway.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input services.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := bc.Bookings.CreateBooking(c.Request.Context(), input)
	if err != nil && !errors.Is(err, services.ErrTokenPending) {
		respondServiceError(c, err)
		return
	}

	if bc.Reminders.Enabled() {
		if full, ferr := bc.Bookings.GetByID(c.Request.Context(), booking.ID); ferr == nil {
			bc.Reminders.SendConfirmation(booking, &full.Customer, full.Service.Name)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":      booking,
		"token":        booking.Token,
		"tokenPending": errors.Is(err, services.ErrTokenPending),
	})
}

// GetBookings lists all bookings joined with customer and service.
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.Bookings.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking retrieves a specific booking by ID
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	booking, err := bc.Bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GetBookingQR renders the booking token as a PNG QR code.
func (bc *BookingController) GetBookingQR(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	png, err := bc.Bookings.QRCode(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTokenPending) {
			utils.RespondWithError(c, http.StatusConflict, "Token not yet assigned")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// StartJob moves a booking to in-progress.
func (bc *BookingController) StartJob(c *gin.Context) {
	bc.runTransition(c, bc.Jobs.Start)
}

// CompleteJob finishes a job, credits the customer's loyalty account
// and sends the completion SMS.
func (bc *BookingController) CompleteJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	booking, err := bc.Jobs.Complete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if bc.Reminders.Enabled() {
		if full, ferr := bc.Bookings.GetByID(c.Request.Context(), booking.ID); ferr == nil {
			bc.Reminders.SendCompletion(booking, &full.Customer, full.Service.Name)
		}
	}
	c.JSON(http.StatusOK, booking)
}

// CancelJob cancels a pending booking.
func (bc *BookingController) CancelJob(c *gin.Context) {
	bc.runTransition(c, bc.Jobs.Cancel)
}

func (bc *BookingController) runTransition(c *gin.Context, fn func(ctx context.Context, id uint) (*models.Booking, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	booking, err := fn(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

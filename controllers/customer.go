package controllers

import (
	"net/http"

	"carserv-backend/models"
	"carserv-backend/services"
	"carserv-backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateCustomerInput defines the expected JSON structure for
// registering a customer explicitly, outside the booking workflow.
type CreateCustomerInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone"`
	VehiclePlate string `json:"vehiclePlate"`
	Address      string `json:"address"`
}

type CustomerController struct {
	Directory *services.CustomerDirectory
	Jobs      *services.JobService
}

// CreateCustomer registers a new customer. Unlike the booking
// workflow's resolve-or-create, an already registered email is a
// conflict here.
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidateEmail(input.Email) {
		utils.RespondWithError(c, http.StatusBadRequest, "email: not a valid email address")
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "phone: not a valid phone number")
		return
	}
	if input.VehiclePlate != "" {
		input.VehiclePlate = utils.NormalizePlate(input.VehiclePlate)
		if !utils.ValidatePlate(input.VehiclePlate) {
			utils.RespondWithError(c, http.StatusBadRequest, "vehiclePlate: must be two letters, two digits, three letters")
			return
		}
	}

	// The directory's insert-or-fetch decides the conflict atomically;
	// a pre-read here would race with concurrent registrations.
	customer, created, err := cc.Directory.Create(c.Request.Context(), &models.Customer{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		VehiclePlate: input.VehiclePlate,
		Address:      input.Address,
		IsActive:     true,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !created {
		respondServiceError(c, services.ErrDuplicateCustomer)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves all active customers
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.Directory.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := cc.Directory.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GetCustomerLoyalty returns the customer's visit count and reward
// eligibility.
func (cc *CustomerController) GetCustomerLoyalty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := cc.Directory.GetByID(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	account, err := cc.Jobs.Loyalty(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

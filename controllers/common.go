package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"carserv-backend/services"
	"carserv-backend/utils"

	"github.com/gin-gonic/gin"
)

// parseID reads a numeric :id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid id format")
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps workflow errors onto HTTP responses. Client
// errors always name the offending field or missing reference.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondWithError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, services.ErrServiceNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrBookingNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateCustomer),
		errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

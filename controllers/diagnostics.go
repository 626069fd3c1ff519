package controllers

import (
	"net/http"

	"carserv-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DiagnosticsController struct {
	DB *gorm.DB
}

// Status is a shallow health probe: storage reachability plus row
// counts for the main tables.
func (dc *DiagnosticsController) Status(c *gin.Context) {
	sqlDB, err := dc.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  "storage unreachable",
		})
		return
	}

	var customers, services, bookings int64
	err = dc.DB.Model(&models.Customer{}).Count(&customers).Error
	if err == nil {
		err = dc.DB.Model(&models.Service{}).Count(&services).Error
	}
	if err == nil {
		err = dc.DB.Model(&models.Booking{}).Count(&bookings).Error
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  "row counts unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"counts": gin.H{
			"customers": customers,
			"services":  services,
			"bookings":  bookings,
		},
	})
}

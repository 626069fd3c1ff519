package routes

import (
	"os"
	"strings"

	"carserv-backend/config"
	"carserv-backend/controllers"
	"carserv-backend/services"
	"carserv-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything the router wires into controllers. Built once
// in main and passed down; no package-level state.
type Deps struct {
	DB        *gorm.DB
	Bookings  *services.BookingService
	Customers *services.CustomerDirectory
	Catalog   *services.Catalog
	Jobs      *services.JobService
	Reminders *services.ReminderService
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	bookingController := &controllers.BookingController{
		Bookings:  deps.Bookings,
		Jobs:      deps.Jobs,
		Reminders: deps.Reminders,
	}
	customerController := &controllers.CustomerController{
		Directory: deps.Customers,
		Jobs:      deps.Jobs,
	}
	serviceController := &controllers.ServiceController{
		DB:      deps.DB,
		Catalog: deps.Catalog,
	}
	authController := &controllers.AuthController{DB: deps.DB}
	diagnostics := &controllers.DiagnosticsController{DB: deps.DB}

	r.GET("/status", diagnostics.Status)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", authController.Me)
	}

	// Public booking surface
	r.GET("/services", serviceController.GetServices)
	r.GET("/services/:id", serviceController.GetService)

	bookings := r.Group("/bookings")
	{
		bookings.POST("", bookingController.CreateBooking)
		bookings.GET("", bookingController.GetBookings)
		bookings.GET("/:id", bookingController.GetBooking)
		bookings.GET("/:id/qr", bookingController.GetBookingQR)
	}

	customers := r.Group("/customers")
	{
		customers.POST("", customerController.CreateCustomer)
		customers.GET("", customerController.GetCustomers)
		customers.GET("/:id", customerController.GetCustomer)
		customers.GET("/:id/loyalty", customerController.GetCustomerLoyalty)
	}

	// Staff routes
	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		api.POST("/services", serviceController.CreateService)
		api.PUT("/services/:id", serviceController.UpdateService)
		api.DELETE("/services/:id", serviceController.DeleteService)

		api.POST("/bookings/:id/start", bookingController.StartJob)
		api.POST("/bookings/:id/complete", bookingController.CompleteJob)
		api.POST("/bookings/:id/cancel", bookingController.CancelJob)
	}

	return r
}

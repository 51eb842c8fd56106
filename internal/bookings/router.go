package bookings

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures booking routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	booking := rg.Group("/bookings")
	booking.Use(middleware.CustomerAuth())
	{
		booking.POST("", controller.CreateBooking)    // POST /api/v1/bookings
		booking.GET("/:id", controller.GetBooking)    // GET /api/v1/bookings/:id
	}

	customer := rg.Group("/customers")
	customer.Use(middleware.CustomerAuth())
	{
		customer.GET("/bookings", controller.GetBookingHistory) // GET /api/v1/customers/bookings
	}
}

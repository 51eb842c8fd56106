package seats

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSeatRoutes configures seat availability and hold routes
func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Seat map is public: customers browse availability before signing in
	rg.GET("/showtimes/:id/seats", controller.GetSeatMap)

	holds := rg.Group("/seats")
	holds.Use(middleware.CustomerAuth())
	{
		holds.POST("/hold", controller.HoldSeats)          // POST /api/v1/seats/hold
		holds.DELETE("/hold/:id", controller.ReleaseHold)  // DELETE /api/v1/seats/hold/:id
	}
}

package showtimes

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupShowtimeRoutes configures showtime catalog routes
func SetupShowtimeRoutes(rg *gin.RouterGroup, controller *Controller) {
	shows := rg.Group("/showtimes")
	{
		// Public browsing
		shows.GET("", controller.ListShowtimes)   // GET /api/v1/showtimes
		shows.GET("/:id", controller.GetShowtime) // GET /api/v1/showtimes/:id

		// Publishing is an admin operation
		shows.POST("", middleware.CustomerAuth(), middleware.RequireAdmin(), controller.CreateShowtime)
	}
}

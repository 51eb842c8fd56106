package seats

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetSeatMap handles GET /api/v1/showtimes/:id/seats
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	showtimeID := ctx.Param("id")

	entries, err := c.service.SeatMap(ctx.Request.Context(), showtimeID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to load seat map",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Seat map retrieved successfully",
		"data": gin.H{
			"showtime_id": showtimeID,
			"seats":       entries,
		},
	})
}

// HoldSeats handles POST /api/v1/seats/hold
func (c *Controller) HoldSeats(ctx *gin.Context) {
	customerID, exists := ctx.Get("customer_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Customer not authenticated"})
		return
	}

	var req HoldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	hold, err := c.service.HoldSeats(ctx.Request.Context(), customerID.(string), req)
	if err != nil {
		ctx.JSON(http.StatusConflict, gin.H{
			"error":   "Failed to hold seats",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Seats held successfully",
		"data":    hold,
	})
}

// ReleaseHold handles DELETE /api/v1/seats/hold/:id
func (c *Controller) ReleaseHold(ctx *gin.Context) {
	holdID := ctx.Param("id")

	if err := c.service.ReleaseHold(ctx.Request.Context(), holdID); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to release hold",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Hold released successfully",
	})
}

package showtimes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateShowtime handles POST /api/v1/showtimes
func (c *Controller) CreateShowtime(ctx *gin.Context) {
	var req CreateShowtimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	showtime, err := c.service.CreateShowtime(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to create showtime",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Showtime created successfully",
		"data":    showtime,
	})
}

// GetShowtime handles GET /api/v1/showtimes/:id
func (c *Controller) GetShowtime(ctx *gin.Context) {
	showtime, err := c.service.GetShowtimeByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, gin.H{
			"error":   "Failed to get showtime",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Showtime retrieved successfully",
		"data":    showtime,
	})
}

// ListShowtimes handles GET /api/v1/showtimes
func (c *Controller) ListShowtimes(ctx *gin.Context) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	items, total, err := c.service.ListShowtimes(ctx.Request.Context(), page, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list showtimes",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Showtimes retrieved successfully",
		"data": gin.H{
			"showtimes": items,
			"count":     len(items),
			"total":     total,
			"page":      page,
			"limit":     limit,
		},
	})
}

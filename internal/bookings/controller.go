package bookings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	customerID, exists := ctx.Get("customer_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Customer not authenticated"})
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": err.Error(),
		})
		return
	}

	bill, err := c.service.CreateBooking(ctx.Request.Context(), customerID.(string), &req)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Booking confirmed",
		"data":    bill,
	})
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	customerID, exists := ctx.Get("customer_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Customer not authenticated"})
		return
	}

	billID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	bill, err := c.service.GetBooking(ctx.Request.Context(), customerID.(string), billID)
	if err != nil {
		if err == ErrBillNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.renderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Booking retrieved successfully",
		"data":    bill,
	})
}

// GetBookingHistory handles GET /api/v1/customers/bookings
func (c *Controller) GetBookingHistory(ctx *gin.Context) {
	customerID, exists := ctx.Get("customer_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Customer not authenticated"})
		return
	}

	limit := parseIntQuery(ctx, "limit", 20)
	offset := parseIntQuery(ctx, "offset", 0)

	bills, total, err := c.service.GetBookingHistory(ctx.Request.Context(), customerID.(string), limit, offset)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Booking history retrieved successfully",
		"data": gin.H{
			"bookings": bills,
			"total":    total,
			"limit":    limit,
			"offset":   offset,
		},
	})
}

// renderError writes the tagged failure with its seat and voucher detail so
// the client can correct the request.
func (c *Controller) renderError(ctx *gin.Context, err error) {
	be, ok := AsBookingError(err)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	body := gin.H{
		"error": be.Message,
		"kind":  be.Kind,
	}
	if len(be.Seats) > 0 {
		labels := make([]string, 0, len(be.Seats))
		for _, ref := range be.Seats {
			labels = append(labels, ref.String())
		}
		body["seats"] = labels
	}
	if be.VoucherReason != "" {
		body["voucher_reason"] = be.VoucherReason
	}

	ctx.JSON(be.HTTPStatus(), body)
}

func parseIntQuery(ctx *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(ctx.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

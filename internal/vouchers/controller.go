package vouchers

import (
	"net/http"
	"strconv"
	"time"

	"cinetix/internal/pricing"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	ledger *Ledger
}

func NewController(ledger *Ledger) *Controller {
	return &Controller{ledger: ledger}
}

// Preview handles GET /api/v1/vouchers/:code/preview. It validates the
// voucher for the signed-in customer without consuming it, and when a
// subtotal query parameter is given, reports the discount it would grant.
func (c *Controller) Preview(ctx *gin.Context) {
	customerID, exists := ctx.Get("customer_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Customer not authenticated"})
		return
	}

	code := ctx.Param("code")
	spec, err := c.ledger.Validate(ctx.Request.Context(), code, customerID.(string), time.Now())
	if err != nil {
		if ve, ok := AsValidationError(err); ok {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":          "Voucher is not usable",
				"voucher_reason": ve.Reason,
			})
			return
		}
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to validate voucher",
			"details": err.Error(),
		})
		return
	}

	data := gin.H{
		"code":         spec.VoucherCode,
		"percent":      spec.Percent,
		"max_discount": spec.MaxDiscount,
		"gift":         spec.Gift,
	}
	if raw := ctx.Query("subtotal"); raw != "" {
		subtotal, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || subtotal < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtotal"})
			return
		}
		data["discount"] = ApplyDiscount(pricing.Money(subtotal), spec)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Voucher is usable",
		"data":    data,
	})
}

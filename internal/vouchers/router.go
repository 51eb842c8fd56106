package vouchers

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupVoucherRoutes configures voucher routes
func SetupVoucherRoutes(rg *gin.RouterGroup, controller *Controller) {
	voucher := rg.Group("/vouchers")
	voucher.Use(middleware.CustomerAuth())
	{
		voucher.GET("/:code/preview", controller.Preview) // GET /api/v1/vouchers/:code/preview
	}
}

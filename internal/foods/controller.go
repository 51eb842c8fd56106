package foods

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	catalog Catalog
}

func NewController(catalog Catalog) *Controller {
	return &Controller{catalog: catalog}
}

// GetFoodItems handles GET /api/v1/foods
func (c *Controller) GetFoodItems(ctx *gin.Context) {
	items, err := c.catalog.GetAll(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to load food items",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Food items retrieved successfully",
		"data":    items,
	})
}

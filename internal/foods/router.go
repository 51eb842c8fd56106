package foods

import (
	"github.com/gin-gonic/gin"
)

// SetupFoodRoutes configures the concession catalog routes
func SetupFoodRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Catalog is public: customers browse concessions before signing in
	rg.GET("/foods", controller.GetFoodItems)
}

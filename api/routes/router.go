// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"cinetix/internal/bookings"
	"cinetix/internal/foods"
	"cinetix/internal/seats"
	"cinetix/internal/shared/config"
	"cinetix/internal/shared/database"
	"cinetix/internal/showtimes"
	"cinetix/internal/vouchers"
	"cinetix/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	cacheService cache.Service
	notifier     bookings.Notifier

	// Cross-feature dependencies built during setup
	seatRepo    *seats.Repository
	foodCatalog foods.Catalog
	ledger      *vouchers.Ledger
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// SetCacheService wires the Redis cache used by read paths.
func (r *Router) SetCacheService(cacheService cache.Service) {
	r.cacheService = cacheService
}

// SetNotifier wires the Kafka booking confirmation publisher.
func (r *Router) SetNotifier(n bookings.Notifier) {
	r.notifier = n
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupShowtimeAndSeatRoutes(api)
		r.setupFoodRoutes(api)
		r.setupVoucherRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinetix-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinetix-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupShowtimeAndSeatRoutes configures the showtime catalog and seat
// availability routes
func (r *Router) setupShowtimeAndSeatRoutes(rg *gin.RouterGroup) {
	r.seatRepo = seats.NewRepository(r.db.GetPostgreSQL())

	holds := seats.NewAtomicHoldOperations(r.db.GetRedisClient())
	seatService := seats.NewService(r.seatRepo, holds, r.config)
	if r.cacheService != nil {
		seatService.SetCacheService(r.cacheService)
	}
	seatController := seats.NewController(seatService)
	seats.SetupSeatRoutes(rg, seatController)

	showtimeRepo := showtimes.NewRepository(r.db.GetPostgreSQL())
	showtimeService := showtimes.NewService(showtimeRepo, r.seatRepo)
	if r.cacheService != nil {
		showtimeService.SetCacheService(r.cacheService)
	}
	showtimeController := showtimes.NewController(showtimeService)
	showtimes.SetupShowtimeRoutes(rg, showtimeController)
}

// setupFoodRoutes configures the concession catalog routes
func (r *Router) setupFoodRoutes(rg *gin.RouterGroup) {
	r.foodCatalog = foods.NewRepository(r.db.GetPostgreSQL())
	foodController := foods.NewController(r.foodCatalog)
	foods.SetupFoodRoutes(rg, foodController)
}

// setupVoucherRoutes configures voucher preview routes
func (r *Router) setupVoucherRoutes(rg *gin.RouterGroup) {
	voucherStore := vouchers.NewRepository(r.db.GetPostgreSQL())
	r.ledger = vouchers.NewLedger(voucherStore)
	voucherController := vouchers.NewController(r.ledger)
	vouchers.SetupVoucherRoutes(rg, voucherController)
}

// setupBookingRoutes configures the booking transaction routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL(), r.seatRepo)
	showtimeLookup := showtimes.NewRepository(r.db.GetPostgreSQL())

	bookingService := bookings.NewService(bookingRepo, showtimeLookup, r.seatRepo, r.foodCatalog, r.ledger)
	bookingService.SetCommitPolicy(r.config.Booking.CommitRetries, r.config.Booking.RetryBackoff)
	bookingService.SetSeatLimit(r.config.Booking.MaxSeatsPerBill)
	if r.cacheService != nil {
		bookingService.SetCacheService(r.cacheService)
	}
	if r.notifier != nil {
		bookingService.SetNotifier(r.notifier)
	}

	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController)
}

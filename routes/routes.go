package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront-bookings/config"
	"storefront-bookings/controllers"
	"storefront-bookings/middleware"
)

// SetupRouter receives the controller instances and wires the routes.
func SetupRouter(
	cfg config.Config,
	log *zap.Logger,
	wc *controllers.WebhookController,
	bc *controllers.BookingController,
	gatherer prometheus.Gatherer,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: !cfg.AllowAllOrigins(),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/order-created", wc.OrderCreated)
		webhooks.POST("/order-cancelled", wc.OrderCancelled)
		webhooks.POST("/shopify", wc.LegacyOrderCreated)
	}

	bookings := r.Group("/bookings")
	{
		bookings.GET("", bc.GetBookings)
		bookings.POST("", bc.CreateBooking)
		bookings.GET("/booked-dates", bc.GetBookedDates)
	}

	return r
}

package routes

import (
	"net/http"
	"time"

	"rentalcar-backend/config"
	"rentalcar-backend/controllers"
	"rentalcar-backend/ratelimit"
	"rentalcar-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Cars     *controllers.CarController
	Services *controllers.ServiceController
	Bookings *controllers.BookingController
	Payments *controllers.PaymentController
	Webhooks *controllers.WebhookController
	Reports  *controllers.ReportController

	Customers     *controllers.CustomerController
	Notifications *controllers.NotificationController
}

type Options struct {
	CorsOrigins    []string
	TrustedProxies []string
	AdminSecret    string
	Limiter        *ratelimit.Limiter
	BookingLimit   int
	PaymentLimit   int
	LimitWindow    time.Duration
}

func SetupRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// with no trusted proxies the client IP is the connection address
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		zap.S().Errorf("invalid trusted proxies %v, forwarded headers ignored: %v", opts.TrustedProxies, err)
		_ = r.SetTrustedProxies(nil)
	}

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", utils.AdminSecretHeader},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: len(opts.CorsOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.CorsOrigins) > 0 {
		corsConfig.AllowOrigins = opts.CorsOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	r.Use(config.PerformanceLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Catalog
	r.GET("/cars", h.Cars.GetCars)
	r.GET("/cars/:id", h.Cars.GetCar)
	r.GET("/services", h.Services.GetServices)

	// Checkout
	r.POST("/bookings",
		ratelimit.Middleware(opts.Limiter, "bookings", opts.BookingLimit, opts.LimitWindow),
		h.Bookings.CreateBooking)
	r.PATCH("/bookings/:id", h.Bookings.UpdateBooking)
	r.POST("/create-payment-intent",
		ratelimit.Middleware(opts.Limiter, "payments", opts.PaymentLimit, opts.LimitWindow),
		h.Payments.CreatePaymentIntent)
	r.GET("/config", h.Payments.GetConfig)
	r.POST("/webhooks/stripe", h.Webhooks.HandleStripe)

	// Admin
	admin := r.Group("", utils.AdminAuth(opts.AdminSecret))
	{
		admin.GET("/bookings", h.Bookings.GetBookings)
		admin.GET("/bookings/:id/receipt", h.Bookings.GetReceipt)
		admin.GET("/reports", h.Reports.GetReportAnalytics)
		admin.GET("/dashboard", h.Reports.GetDashboardOverview)
		admin.GET("/customers", h.Customers.GetCustomers)
		admin.GET("/notifications", h.Notifications.GetNotificationLogs)
	}

	return r
}

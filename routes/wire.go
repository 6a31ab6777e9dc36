package routes

import (
	"rentalcar-backend/config"
	"rentalcar-backend/controllers"
	"rentalcar-backend/ratelimit"
	"rentalcar-backend/services"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// NewHandlers builds every controller over one database and payment gateway.
func NewHandlers(cfg *config.AppConfig, db *gorm.DB, ids *snowflake.Node, gateway services.PaymentGateway, notifier services.Notifier) Handlers {
	catalog := services.NewCatalogService(db)
	bookings := services.NewBookingService(db, ids, notifier)
	receipts := services.NewReceiptService(cfg.System.SiteName, cfg.System.SiteURL, cfg.Stripe.Currency)

	return Handlers{
		Cars:     controllers.NewCarController(catalog),
		Services: controllers.NewServiceController(catalog),
		Bookings: controllers.NewBookingController(bookings, receipts),
		Payments: controllers.NewPaymentController(gateway, bookings, cfg.Stripe.PublishableKey, cfg.Stripe.Currency),
		Webhooks: controllers.NewWebhookController(cfg.Stripe.WebhookSecret, bookings),
		Reports:  controllers.NewReportController(db),

		Customers:     controllers.NewCustomerController(db),
		Notifications: controllers.NewNotificationController(db),
	}
}

func NewOptions(cfg *config.AppConfig, limiter *ratelimit.Limiter) Options {
	return Options{
		CorsOrigins:    cfg.System.CorsOrigins,
		TrustedProxies: cfg.System.TrustedProxies,
		AdminSecret:    cfg.System.AdminSecret,
		Limiter:        limiter,
		BookingLimit:   cfg.RateLimit.Booking,
		PaymentLimit:   cfg.RateLimit.Payment,
		LimitWindow:    cfg.RateLimit.Window,
	}
}

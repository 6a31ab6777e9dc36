package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentalcar-backend/config"
	"rentalcar-backend/ratelimit"
	"rentalcar-backend/routes"
	"rentalcar-backend/services"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "rentalcar-backend",
		Short: "Car rental booking and checkout API",
		RunE:  runServe,
	}

	var resetSeed bool
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default fleet and services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(cfg *config.AppConfig, db *gorm.DB) error {
				return services.SeedCatalog(db, resetSeed)
			})
		},
	}
	seedCmd.Flags().BoolVar(&resetSeed, "reset", false, "delete bookings, cars and services before seeding")

	rootCmd.AddCommand(
		&cobra.Command{Use: "serve", Short: "Run the HTTP server", RunE: runServe},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(cfg *config.AppConfig, db *gorm.DB) error { return nil })
			},
		},
		seedCmd,
		newBookCmd(),
		&cobra.Command{
			Use:   "sweep",
			Short: "Expire abandoned pending bookings once",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(cfg *config.AppConfig, db *gorm.DB) error {
					ids, err := snowflake.NewNode(cfg.System.SnowflakeNode)
					if err != nil {
						return err
					}
					bookings := services.NewBookingService(db, ids, nil)
					_, err = services.NewExpiryService(bookings, cfg.Booking.PendingTTL).Run(cmd.Context())
					return err
				})
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// withDB loads config, sets up logging, connects and migrates before fn.
func withDB(fn func(cfg *config.AppConfig, db *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := config.InitLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}
	return fn(cfg, db)
}

func runServe(cmd *cobra.Command, args []string) error {
	return withDB(func(cfg *config.AppConfig, db *gorm.DB) error {
		if cfg.Logger.Mode == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		if cfg.System.AdminSecret == "" {
			zap.S().Warn("ADMIN_SECRET is not set, admin routes will reject every request")
		}
		if cfg.Stripe.SecretKey == "" {
			zap.S().Warn("STRIPE_SECRET_KEY is not set, payment intents will fail")
		}
		if cfg.Stripe.WebhookSecret == "" {
			zap.S().Warn("STRIPE_WEBHOOK_SECRET is not set, payment webhooks are disabled")
		}

		ids, err := snowflake.NewNode(cfg.System.SnowflakeNode)
		if err != nil {
			return err
		}

		notifier := services.NewNotifier(db, services.TwilioConfig{
			AccountSID:     cfg.Twilio.AccountSID,
			AuthToken:      cfg.Twilio.AuthToken,
			PhoneNumber:    cfg.Twilio.PhoneNumber,
			WhatsAppNumber: cfg.Twilio.WhatsAppNumber,
			Currency:       cfg.Stripe.Currency,
		})
		gateway := services.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency)
		limiter := ratelimit.New(ratelimit.NewMemoryStore())

		r := routes.SetupRouter(
			routes.NewHandlers(cfg, db, ids, gateway, notifier),
			routes.NewOptions(cfg, limiter),
		)
		printRoutes(r)

		expiry := services.NewExpiryService(services.NewBookingService(db, ids, notifier), cfg.Booking.PendingTTL)
		sched, err := services.StartScheduler(expiry, cfg.Booking.ExpirySchedule, limiter)
		if err != nil {
			return err
		}
		defer sched.Stop()

		srv := &http.Server{
			Addr:              ":" + cfg.System.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.S().Infof("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			zap.S().Infof("received %s, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		zap.S().Infof("%-6s %s", route.Method, route.Path)
	}
}

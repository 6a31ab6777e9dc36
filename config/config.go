package config

import (
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SystemConfig struct {
	Port          string   `yaml:"port"`
	SiteName      string   `yaml:"site_name"`
	SiteURL       string   `yaml:"site_url"`
	AdminSecret   string   `yaml:"admin_secret"`
	CorsOrigins   []string `yaml:"cors_origins"`
	SnowflakeNode int64    `yaml:"snowflake_node"`

	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For is honoured.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type DatabaseConfig struct {
	Type         string        `yaml:"type"` // postgres, mysql, sqlite
	URL          string        `yaml:"url"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	ConnLifetime time.Duration `yaml:"conn_lifetime"`
	Debug        bool          `yaml:"debug"`
}

type StripeConfig struct {
	SecretKey      string `yaml:"secret_key"`
	PublishableKey string `yaml:"publishable_key"`
	WebhookSecret  string `yaml:"webhook_secret"`
	Currency       string `yaml:"currency"`
}

type RateLimitConfig struct {
	Booking int           `yaml:"booking"`
	Payment int           `yaml:"payment"`
	Window  time.Duration `yaml:"window"`
}

type BookingConfig struct {
	PendingTTL     time.Duration `yaml:"pending_ttl"`
	ExpirySchedule string        `yaml:"expiry_schedule"`
}

type LoggerConfig struct {
	Mode     string `yaml:"mode"` // development, production
	Filename string `yaml:"filename"`
}

type TwilioConfig struct {
	AccountSID     string `yaml:"account_sid"`
	AuthToken      string `yaml:"auth_token"`
	PhoneNumber    string `yaml:"phone_number"`
	WhatsAppNumber string `yaml:"whatsapp_number"`
}

type AppConfig struct {
	System    SystemConfig    `yaml:"system"`
	Database  DatabaseConfig  `yaml:"database"`
	Stripe    StripeConfig    `yaml:"stripe"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Booking   BookingConfig   `yaml:"booking"`
	Logger    LoggerConfig    `yaml:"logger"`
	Twilio    TwilioConfig    `yaml:"twilio"`
}

func Default() *AppConfig {
	return &AppConfig{
		System: SystemConfig{
			Port:     "8080",
			SiteName: "Premium Rental Car",
			SiteURL:  "http://localhost:3000",
		},
		Database: DatabaseConfig{
			Type:         "postgres",
			MaxOpenConns: 25,
			MaxIdleConns: 10,
			ConnLifetime: 5 * time.Minute,
		},
		Stripe: StripeConfig{Currency: "usd"},
		RateLimit: RateLimitConfig{
			Booking: 10,
			Payment: 5,
			Window:  time.Minute,
		},
		Booking: BookingConfig{
			PendingTTL:     30 * time.Minute,
			ExpirySchedule: "@every 5m",
		},
		Logger: LoggerConfig{Mode: "development"},
	}
}

// Load reads .env, then the YAML file named by CONFIG_FILE if any, then
// applies environment overrides.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()
	return LoadFrom(os.Getenv("CONFIG_FILE"), os.LookupEnv)
}

// LoadFrom builds a config from defaults, an optional YAML file and the
// variables visible through lookup.
func LoadFrom(path string, lookup func(string) (string, bool)) (*AppConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &cfg.System.Port)
	str("SITE_NAME", &cfg.System.SiteName)
	str("SITE_URL", &cfg.System.SiteURL)
	str("ADMIN_SECRET", &cfg.System.AdminSecret)
	str("DB_TYPE", &cfg.Database.Type)
	str("DB_URL", &cfg.Database.URL)
	str("STRIPE_SECRET_KEY", &cfg.Stripe.SecretKey)
	str("STRIPE_PUBLISHABLE_KEY", &cfg.Stripe.PublishableKey)
	str("STRIPE_WEBHOOK_SECRET", &cfg.Stripe.WebhookSecret)
	str("CURRENCY", &cfg.Stripe.Currency)
	str("EXPIRY_SCHEDULE", &cfg.Booking.ExpirySchedule)
	str("LOG_MODE", &cfg.Logger.Mode)
	str("LOG_FILE", &cfg.Logger.Filename)
	str("TWILIO_ACCOUNT_SID", &cfg.Twilio.AccountSID)
	str("TWILIO_AUTH_TOKEN", &cfg.Twilio.AuthToken)
	str("TWILIO_PHONE_NUMBER", &cfg.Twilio.PhoneNumber)
	str("TWILIO_WHATSAPP_NUMBER", &cfg.Twilio.WhatsAppNumber)

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		cfg.System.CorsOrigins = splitList(v)
	}
	if v, ok := lookup("TRUSTED_PROXIES"); ok && v != "" {
		cfg.System.TrustedProxies = splitList(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"BOOKING_RATE_LIMIT", &cfg.RateLimit.Booking},
		{"PAYMENT_RATE_LIMIT", &cfg.RateLimit.Payment},
		{"DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns},
		{"DB_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns},
	}
	for _, it := range ints {
		if v, ok := lookup(it.key); ok && v != "" {
			n, err := cast.ToIntE(strings.TrimSpace(v))
			if err != nil {
				return errors.Wrapf(err, "%s", it.key)
			}
			*it.dst = n
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"RATE_LIMIT_WINDOW", &cfg.RateLimit.Window},
		{"PENDING_BOOKING_TTL", &cfg.Booking.PendingTTL},
		{"DB_CONN_LIFETIME", &cfg.Database.ConnLifetime},
	}
	for _, it := range durations {
		if v, ok := lookup(it.key); ok && v != "" {
			d, err := cast.ToDurationE(strings.TrimSpace(v))
			if err != nil {
				return errors.Wrapf(err, "%s", it.key)
			}
			*it.dst = d
		}
	}

	if v, ok := lookup("SNOWFLAKE_NODE"); ok && v != "" {
		n, err := cast.ToInt64E(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(err, "SNOWFLAKE_NODE")
		}
		cfg.System.SnowflakeNode = n
	}
	if v, ok := lookup("DB_DEBUG"); ok && v != "" {
		cfg.Database.Debug = cast.ToBool(v)
	}
	return nil
}

func (c *AppConfig) Validate() error {
	switch c.Database.Type {
	case "postgres", "mysql", "sqlite":
	default:
		return errors.Errorf("unsupported DB_TYPE %q", c.Database.Type)
	}
	if c.RateLimit.Booking <= 0 || c.RateLimit.Payment <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	if c.Booking.PendingTTL <= 0 {
		return errors.New("PENDING_BOOKING_TTL must be positive")
	}
	if c.System.SnowflakeNode < 0 || c.System.SnowflakeNode > 1023 {
		return errors.New("SNOWFLAKE_NODE must be between 0 and 1023")
	}
	for _, p := range c.System.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return errors.Errorf("invalid TRUSTED_PROXIES entry %q", p)
			}
		}
	}
	return nil
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

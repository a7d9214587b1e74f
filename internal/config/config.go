package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ProviderXendit   = "xendit"
	ProviderMidtrans = "midtrans"

	LimiterToken = "token"
	LimiterFixed = "fixed"
)

type App struct {
	Addr        string `envconfig:"ADDR" default:":8080"`
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	ExternalURL string `envconfig:"EXTERNAL_URL" default:"localhost:8080"`
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"`

	// Embedded so the tags below are read as-is, without a prefix.
	DB
	Payment
	Webhook
	Booking
	Limiter
	Events
	Auth
	Reconcile
}

type DB struct {
	Addr        string `envconfig:"DB_ADDR"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"30"`
	MaxIdleTime string `envconfig:"DB_MAX_IDLE_TIME" default:"15m"`
	Migrate     bool   `envconfig:"DB_MIGRATE" default:"true"`
}

type Payment struct {
	Provider           string        `envconfig:"PAYMENT_PROVIDER" default:"xendit"`
	XenditSecretKey    string        `envconfig:"XENDIT_SECRET_KEY"`
	XenditBaseURL      string        `envconfig:"XENDIT_BASE_URL" default:"https://api.xendit.co"`
	MidtransServerKey  string        `envconfig:"MIDTRANS_SERVER_KEY"`
	MidtransProduction bool          `envconfig:"MIDTRANS_PRODUCTION" default:"false"`
	CallbackURL        string        `envconfig:"PAYMENT_CALLBACK_URL"`
	VAExpiry           time.Duration `envconfig:"PAYMENT_VA_EXPIRY" default:"24h"`
}

type Webhook struct {
	HMACSecret    string        `envconfig:"WEBHOOK_HMAC_SECRET"`
	CallbackToken string        `envconfig:"WEBHOOK_CALLBACK_TOKEN"`
	Tolerance     time.Duration `envconfig:"WEBHOOK_TOLERANCE" default:"5m"`
}

type Booking struct {
	StaleWindow time.Duration `envconfig:"STALE_BOOKING_WINDOW" default:"60m"`
	HashidsSalt string        `envconfig:"HASHIDS_SALT" default:"arena"`
}

type Reconcile struct {
	Interval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"5m"`
	Batch    int           `envconfig:"RECONCILE_BATCH" default:"50"`
}

type Limiter struct {
	Enabled              bool          `envconfig:"RATELIMITER_ENABLED" default:"false"`
	RequestsPerTimeFrame int           `envconfig:"RATELIMITER_REQUESTS_COUNT" default:"200"`
	TimeFrame            time.Duration `envconfig:"RATELIMITER_WINDOW" default:"5s"`
	Strategy             string        `envconfig:"RATELIMITER_STRATEGY" default:"token"`
	RedisAddr            string        `envconfig:"REDIS_ADDR"`
}

type Events struct {
	RabbitURL   string   `envconfig:"RABBITMQ_URL"`
	Exchange    string   `envconfig:"EVENTS_EXCHANGE" default:"arena.events"`
	StaffTokens []string `envconfig:"EXPO_STAFF_TOKENS"`

	// PublishTimeout bounds one background delivery to the broker or Expo.
	PublishTimeout time.Duration `envconfig:"EVENTS_PUBLISH_TIMEOUT" default:"5s"`
	QueueSize      int           `envconfig:"EVENTS_QUEUE_SIZE" default:"256"`
}

type Auth struct {
	BasicUser   string        `envconfig:"AUTH_BASIC_USER"`
	BasicPass   string        `envconfig:"AUTH_BASIC_PASS"`
	TokenSecret string        `envconfig:"AUTH_TOKEN_SECRET"`
	TokenIss    string        `envconfig:"AUTH_TOKEN_ISS" default:"arena"`
	TokenExp    time.Duration `envconfig:"AUTH_TOKEN_EXP" default:"72h"`
}

// Load reads an optional .env file and then the process environment.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return App{}, fmt.Errorf("load .env: %w", err)
	}

	var c App
	if err := envconfig.Process("", &c); err != nil {
		return App{}, err
	}
	return c, c.Validate()
}

func (c App) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DB.Addr == "" {
			return errors.New("DB_ADDR is required for the postgres store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch strings.ToLower(c.Payment.Provider) {
	case ProviderXendit, ProviderMidtrans:
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.Payment.Provider)
	}

	switch c.Limiter.Strategy {
	case LimiterToken, LimiterFixed:
	default:
		return fmt.Errorf("unknown RATELIMITER_STRATEGY %q", c.Limiter.Strategy)
	}

	if c.Payment.VAExpiry <= 0 {
		return errors.New("PAYMENT_VA_EXPIRY must be positive")
	}
	return nil
}

func (c App) IsProduction() bool { return c.Env == "production" }

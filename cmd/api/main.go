package main

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"runtime"
	"strings"

	"arena/internal/allocator"
	"arena/internal/auth"
	"arena/internal/booking"
	"arena/internal/config"
	"arena/internal/db"
	"arena/internal/domain/bookings"
	"arena/internal/domain/storage"
	"arena/internal/events"
	"arena/internal/ledger"
	"arena/internal/notifications"
	"arena/internal/payments"
	"arena/internal/pos"
	"arena/internal/ratelimiter"
	"arena/internal/webhook"

	"github.com/9ssi7/exponent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a console zap logger with coloured levels.
func NewLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stdout), lvl)
	return zap.New(core).Sugar(), nil
}

var version = "0.4.0"

//	@title			Arena API
//	@description	Court booking, payment ledger and gateway webhook reconciliation.

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				Staff token, "Bearer <token>"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Storage
	var store storage.Store
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.New(cfg.DB.Addr, cfg.DB.MaxConns, cfg.DB.MaxIdleTime)
		if err != nil {
			logger.Fatal(err)
		}
		defer pool.Close()
		logger.Info("database connection pool established")

		if cfg.DB.Migrate {
			if err := db.Migrate(ctx, pool); err != nil {
				logger.Fatal(err)
			}
			logger.Info("database schema is up to date")
		}
		expvar.Publish("database", expvar.Func(func() any {
			s := pool.Stat()
			return map[string]int32{"total": s.TotalConns(), "idle": s.IdleConns(), "acquired": s.AcquiredConns()}
		}))
		store = storage.NewContainer(pool)
	case config.DriverMemory:
		if cfg.IsProduction() {
			logger.Fatal("the memory store is not allowed in production")
		}
		logger.Warn("using the in-memory store, data is lost on restart")
		store = storage.NewMemory()
	}

	// Events: RabbitMQ topic exchange plus Expo push to the front desk.
	fanout := events.Fanout{}
	if cfg.Events.RabbitURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.Events.RabbitURL, cfg.Events.Exchange)
		if err != nil {
			logger.Fatal(err)
		}
		defer amqpPub.Close()
		fanout = append(fanout, amqpPub)
		logger.Infow("publishing events", "exchange", cfg.Events.Exchange)
	}
	if len(cfg.Events.StaffTokens) > 0 {
		expo := notifications.NewExpoSender(exponent.NewClient())
		fanout = append(fanout, notifications.NewStaffNotifier(expo, cfg.Events.StaffTokens))
	}
	var publisher events.Publisher = events.Noop{}
	if len(fanout) > 0 {
		// Deliveries run off the request path; queued events drain before
		// the broker connection above is closed.
		async := events.NewAsync(fanout, logger, cfg.Events.PublishTimeout, cfg.Events.QueueSize)
		defer async.Close()
		publisher = async
	}

	// Payment gateways
	gateways := payments.NewManager(strings.ToLower(cfg.Payment.Provider))
	gateways.RegisterGateway(payments.NewXenditAdapter(cfg.Payment.XenditSecretKey, cfg.Payment.XenditBaseURL))
	gateways.RegisterGateway(payments.NewMidtransAdapter(cfg.Payment.MidtransServerKey, cfg.Payment.MidtransProduction))
	if _, err := gateways.Gateway(gateways.Name()); err != nil {
		logger.Fatal(err)
	}

	codes, err := bookings.NewCodes(cfg.Booking.HashidsSalt)
	if err != nil {
		logger.Fatal(err)
	}

	bookingSvc := booking.NewService(store, allocator.New(logger), codes, logger, booking.Options{
		StaleAfter: cfg.Booking.StaleWindow,
		Events:     publisher,
	})
	ledgerSvc := ledger.New(store, gateways, bookingSvc, ledger.NewReferences(cfg.Webhook.HMACSecret+cfg.Booking.HashidsSalt), logger, ledger.Options{
		VAExpiry:    cfg.Payment.VAExpiry,
		CallbackURL: cfg.Payment.CallbackURL,
		Events:      publisher,
	})
	verifier := webhook.NewVerifier(cfg.Webhook.HMACSecret, cfg.Webhook.CallbackToken, cfg.Webhook.Tolerance)
	midtrans := gateways.Name() == config.ProviderMidtrans && cfg.Payment.MidtransServerKey != ""
	if midtrans {
		verifier.WithMidtransServerKey(cfg.Payment.MidtransServerKey)
	}
	if !midtrans && cfg.Webhook.HMACSecret == "" && cfg.Webhook.CallbackToken == "" {
		logger.Warn("no WEBHOOK_HMAC_SECRET or WEBHOOK_CALLBACK_TOKEN set, every gateway callback will be rejected")
	}
	reconciler := webhook.NewReconciler(verifier, ledgerSvc, logger)

	// Rate limiter
	var limiter ratelimiter.Limiter
	if cfg.Limiter.Enabled {
		limiter = newLimiter(ctx, cfg.Limiter, logger)
	}

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		bookings:      bookingSvc,
		ledger:        ledgerSvc,
		pos:           pos.NewService(store, bookingSvc, logger),
		reconciler:    reconciler,
		authenticator: auth.NewJWTAuthenticator(cfg.Auth.TokenSecret, cfg.Auth.TokenIss, cfg.Auth.TokenIss, cfg.Auth.TokenExp),
		rateLimiter:   limiter,
	}

	// Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	bg, stop := context.WithCancel(ctx)
	defer stop()
	app.reconcileStuckPayments(bg)

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

// newLimiter prefers the shared Redis window and falls back to an
// in-process limiter when Redis is not configured or unreachable.
func newLimiter(ctx context.Context, cfg config.Limiter, logger *zap.SugaredLogger) ratelimiter.Limiter {
	if cfg.RedisAddr != "" {
		rdb, err := ratelimiter.NewRedisClient(ctx, cfg.RedisAddr)
		if err == nil {
			logger.Infow("rate limiting through redis", "addr", cfg.RedisAddr)
			return ratelimiter.NewRedisFixedWindowLimiter(rdb, cfg.RequestsPerTimeFrame, cfg.TimeFrame, logger)
		}
		logger.Warnw("redis unavailable, rate limiting in process", "addr", cfg.RedisAddr, "error", err)
	}
	if cfg.Strategy == config.LimiterFixed {
		fw := ratelimiter.NewFixedWindowLimiter(cfg.RequestsPerTimeFrame, cfg.TimeFrame)
		go fw.Cleanup(ctx)
		return fw
	}
	tb := ratelimiter.NewTokenBucketLimiter(cfg.RequestsPerTimeFrame, cfg.TimeFrame)
	go tb.Cleanup(ctx)
	return tb
}

package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arena/docs" // registers the swagger spec
	"arena/internal/auth"
	"arena/internal/booking"
	"arena/internal/config"
	"arena/internal/domain/storage"
	"arena/internal/ledger"
	"arena/internal/pos"
	"arena/internal/ratelimiter"
	"arena/internal/webhook"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config.App
	store         storage.Store
	logger        *zap.SugaredLogger
	bookings      *booking.Service
	ledger        *ledger.Ledger
	pos           *pos.Service
	reconciler    *webhook.Reconciler
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/v1/swagger/doc.json", app.config.ExternalURL)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Gateways retry on anything but 2xx, so the webhook is never rate limited.
		r.Post("/webhooks/payment-gateway", app.paymentWebhookHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.RateLimiterMiddleware)

			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", app.createBookingHandler)
				r.Get("/code/{code}", app.getBookingByCodeHandler)
				r.Route("/{bookingID}", func(r chi.Router) {
					r.Get("/", app.getBookingHandler)
					r.Patch("/move", app.moveBookingHandler)
					r.Post("/cancel", app.cancelBookingHandler)
					r.Post("/cash", app.settleBookingCashHandler)
				})
			})

			r.Get("/venues/{venueID}/courts", app.listCourtsHandler)
			r.Route("/venues/{venueID}/courts/{courtID}", func(r chi.Router) {
				r.Get("/bookings", app.listCourtBookingsHandler)
				r.Get("/availability", app.courtAvailabilityHandler)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", app.openPaymentHandler)
				r.Get("/{externalID}", app.getPaymentHandler)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", app.createTransactionHandler)
				r.Get("/{txID}", app.getTransactionHandler)
				r.Post("/{txID}/cash", app.settleTransactionCashHandler)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(app.BasicAuthMiddleware()).Post("/token", app.createStaffTokenHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.StaffTokenMiddleware)
				r.Post("/venues", app.createVenueHandler)
				r.Post("/courts", app.createCourtHandler)
				r.Patch("/courts/{courtID}", app.updateCourtHandler)
				r.Delete("/bookings/{bookingID}", app.deleteBookingHandler)
				r.Get("/payments", app.listPaymentsHandler)
				r.Get("/payments/stuck", app.stuckPaymentsHandler)
				r.Get("/payments/{externalID}/logs", app.paymentLogsHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.ExternalURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.Addr, "env", app.config.Env, "store", app.config.StoreDriver)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.Addr, "env", app.config.Env)

	return nil
}

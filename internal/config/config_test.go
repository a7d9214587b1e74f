package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, ProviderXendit, c.Payment.Provider)
	assert.Equal(t, 24*time.Hour, c.Payment.VAExpiry)
	assert.Equal(t, 5*time.Minute, c.Webhook.Tolerance)
	assert.Equal(t, 60*time.Minute, c.Booking.StaleWindow)
	assert.Equal(t, 200, c.Limiter.RequestsPerTimeFrame)
	assert.Equal(t, "arena.events", c.Events.Exchange)
	assert.Equal(t, 5*time.Second, c.Events.PublishTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PAYMENT_PROVIDER", "midtrans")
	t.Setenv("WEBHOOK_HMAC_SECRET", "s3cret")
	t.Setenv("EXPO_STAFF_TOKENS", "ExponentPushToken[a],ExponentPushToken[b]")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderMidtrans, c.Payment.Provider)
	assert.Equal(t, "s3cret", c.Webhook.HMACSecret)
	assert.Len(t, c.Events.StaffTokens, 2)
}

func TestValidateRejectsUnknownDrivers(t *testing.T) {
	c := App{StoreDriver: "sqlite", Payment: Payment{Provider: ProviderXendit, VAExpiry: time.Hour}}
	assert.Error(t, c.Validate())

	c = App{StoreDriver: DriverMemory, Payment: Payment{Provider: "stripe", VAExpiry: time.Hour}}
	assert.Error(t, c.Validate())

	c = App{StoreDriver: DriverPostgres, Payment: Payment{Provider: ProviderXendit, VAExpiry: time.Hour}}
	assert.Error(t, c.Validate(), "postgres needs DB_ADDR")
}

func TestValidateRateLimiterStrategy(t *testing.T) {
	c := App{StoreDriver: DriverMemory, Payment: Payment{Provider: ProviderXendit, VAExpiry: time.Hour}, Limiter: Limiter{Strategy: LimiterFixed}}
	assert.NoError(t, c.Validate())

	c.Limiter.Strategy = "leaky"
	assert.Error(t, c.Validate())
}

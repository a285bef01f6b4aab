package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "orders", cfg.OrderTableName)
	assert.Equal(t, "GB", cfg.Shipping.Country)
	assert.Equal(t, int64(355), cfg.Shipping.Amount)
	assert.Equal(t, "Royal Mail Tracked 48", cfg.Shipping.DisplayName)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.Brokers())
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	setRequired(t)
	require.NoError(t, os.Unsetenv("SESSION_SECRET"))

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_SECRET")
}

func TestLoadRequiresWebhookSecret(t *testing.T) {
	setRequired(t)
	require.NoError(t, os.Unsetenv("STRIPE_WEBHOOK_SECRET"))

	_, err := Load()
	assert.ErrorContains(t, err, "STRIPE_WEBHOOK_SECRET")
}

func TestBrokers(t *testing.T) {
	cfg := Config{KafkaBrokers: "kafka-1:9092, kafka-2:9092,,"}
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers())
}

func TestOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("SHIPPING_AMOUNT", "499")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, int64(499), cfg.Shipping.Amount)
}

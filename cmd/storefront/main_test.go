package main

import (
	"context"
	"testing"

	"github.com/fourways-coffee/storefront/internal/events"
	"github.com/fourways-coffee/storefront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		Environment:        "development",
		LogLevel:           "debug",
		CatalogTableName:   "coffees",
		OrderTableName:     "orders",
		InventoryTableName: "inventory",
		OrderEventsTopic:   "order-events",
	}
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig()
	logger, err := newLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	cfg.LogLevel = "loud"
	_, err = newLogger(cfg)
	assert.Error(t, err)
}

func TestNewPublisher(t *testing.T) {
	cfg := testConfig()
	pub := newPublisher(cfg, zap.NewNop())
	_, noop := pub.(*events.NoopPublisher)
	assert.True(t, noop)

	cfg.KafkaBrokers = "localhost:9092"
	pub = newPublisher(cfg, zap.NewNop())
	_, kafka := pub.(*events.KafkaProducer)
	assert.True(t, kafka)
	assert.NoError(t, pub.Close())
}

func TestOpenStores_InMemory(t *testing.T) {
	st, err := openStores(context.Background(), testConfig(), true)
	require.NoError(t, err)

	products, err := st.catalog.ListSellable(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, st.orders)
	assert.NotNil(t, st.inventory)
}

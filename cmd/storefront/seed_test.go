package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApplySeed_SampleFile(t *testing.T) {
	seed, err := readSeedFile(filepath.Join("testdata", "seed.json"))
	require.NoError(t, err)
	require.Len(t, seed.Coffees, 3)
	require.Len(t, seed.Inventory, 3)

	catalog := repository.NewMemoryCatalog()
	inventory := repository.NewMemoryInventory()
	require.NoError(t, applySeed(context.Background(), seed, catalog, inventory, zap.NewNop()))

	sellable, err := catalog.ListSellable(context.Background())
	require.NoError(t, err)
	require.Len(t, sellable, 2)
	assert.Equal(t, "price_eth_guji_250", sellable[0].PriceRef)

	rows, err := inventory.GetByIDs(context.Background(), []int64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), rows[1].GreenGrams)
	assert.Equal(t, "eth-guji", rows[1].CoffeeID)
	assert.Equal(t, int64(4200), rows[3].RoastedGrams)
}

func TestApplySeed_Rejects(t *testing.T) {
	catalog := repository.NewMemoryCatalog()
	inventory := repository.NewMemoryInventory()

	err := applySeed(context.Background(), seedFile{Coffees: []domain.Product{{Name: "No price"}}}, catalog, inventory, zap.NewNop())
	assert.True(t, domain.IsValidationError(err))

	err = applySeed(context.Background(), seedFile{Inventory: []domain.InventoryRow{{ID: 0}}}, catalog, inventory, zap.NewNop())
	assert.True(t, domain.IsValidationError(err))
}

func TestReadSeedFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"coffees": [`), 0o600))

	_, err := readSeedFile(path)
	assert.Error(t, err)

	_, err = readSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestTableSpecs(t *testing.T) {
	cfg := testConfig()
	specs := tableSpecs(cfg)
	require.Len(t, specs, 3)
	assert.Equal(t, "orders", specs[1].Name)
	assert.True(t, specs[1].WithGSI)
	assert.False(t, specs[0].WithGSI)
}

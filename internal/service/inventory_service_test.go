package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testInventory() *repository.MemoryInventory {
	return repository.NewMemoryInventory(
		domain.InventoryRow{ID: 1, CoffeeID: "c-1", CoffeeName: "Ethiopia Guji", GreenGrams: 5000, RoastedGrams: 200},
		domain.InventoryRow{ID: 2, CoffeeID: "c-2", CoffeeName: "Colombia Huila", GreenGrams: 800, RoastedGrams: 0},
	)
}

func TestParseRoastForm(t *testing.T) {
	form := url.Values{
		"roast_green_g_1":    {"1000"},
		"roast_green_g_2":    {" 99.5 "},
		"roast_green_g_3":    {""},
		"roast_green_g_4":    {"-5"},
		"roast_green_g_5":    {"abc"},
		"roast_green_g_6":    {"0.4"},
		"roast_green_g_0":    {"100"},
		"roast_green_g_x":    {"100"},
		"roast_green_g_7":    {"Inf"},
		"roast_green_g_8":    {"NaN"},
		"roast_green_g_10":   {"1e30"},
		"roast_green_g_11":   {"9223372036854775808"},
		"other_field":        {"100"},
		"roast_green_g_9":    {"12"},
		"roast_green_g_0009": {"30"},
	}

	entries := ParseRoastForm(form)
	assert.Equal(t, []RoastEntry{
		{InventoryID: 1, GreenUsed: 1000},
		{InventoryID: 2, GreenUsed: 100},
		{InventoryID: 9, GreenUsed: 12},
	}, entries)
}

func TestInventoryService_LogRoastSession(t *testing.T) {
	inv := testInventory()
	svc := NewInventoryService(inv, zap.NewNop())

	err := svc.LogRoastSession(context.Background(), []RoastEntry{
		{InventoryID: 1, GreenUsed: 1000},
		{InventoryID: 2, GreenUsed: 101},
	})
	require.NoError(t, err)

	rows, err := inv.GetByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4000), rows[1].GreenGrams)
	assert.Equal(t, int64(1050), rows[1].RoastedGrams)
	assert.Equal(t, int64(699), rows[2].GreenGrams)
	// 101 * 0.85 = 85.85
	assert.Equal(t, int64(86), rows[2].RoastedGrams)
}

func TestInventoryService_LogRoastSessionRejected(t *testing.T) {
	tests := []struct {
		name    string
		entries []RoastEntry
		message string
	}{
		{
			name:    "no entries",
			entries: nil,
			message: "Enter at least one roast amount greater than 0 grams.",
		},
		{
			name:    "over stock rejects whole batch",
			entries: []RoastEntry{{InventoryID: 1, GreenUsed: 100}, {InventoryID: 2, GreenUsed: 801}},
			message: "Not enough green inventory for item 2.",
		},
		{
			name:    "unknown row",
			entries: []RoastEntry{{InventoryID: 1, GreenUsed: 100}, {InventoryID: 42, GreenUsed: 1}},
			message: "Inventory item 42 was not found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := testInventory()
			svc := NewInventoryService(inv, zap.NewNop())

			err := svc.LogRoastSession(context.Background(), tt.entries)
			var rse *RoastSessionError
			require.True(t, errors.As(err, &rse))
			assert.Equal(t, tt.message, rse.Message)

			rows, err := inv.GetByIDs(context.Background(), []int64{1, 2})
			require.NoError(t, err)
			assert.Equal(t, int64(5000), rows[1].GreenGrams)
			assert.Equal(t, int64(200), rows[1].RoastedGrams)
			assert.Equal(t, int64(800), rows[2].GreenGrams)
		})
	}
}

// conflictingInventory changes underneath the roast session.
type conflictingInventory struct {
	*repository.MemoryInventory
}

func (conflictingInventory) ApplyRoast(ctx context.Context, adjustments []domain.RoastAdjustment) error {
	return domain.ErrInventoryConflict
}

func TestInventoryService_LogRoastSessionConflict(t *testing.T) {
	svc := NewInventoryService(conflictingInventory{testInventory()}, zap.NewNop())

	err := svc.LogRoastSession(context.Background(), []RoastEntry{{InventoryID: 1, GreenUsed: 10}})
	var rse *RoastSessionError
	require.True(t, errors.As(err, &rse))
	assert.Equal(t, "Unable to complete roast session update.", rse.Message)
	assert.ErrorIs(t, err, domain.ErrInventoryConflict)
}

func TestInventoryService_List(t *testing.T) {
	svc := NewInventoryService(testInventory(), zap.NewNop())

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ID)
}

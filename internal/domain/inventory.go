package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoastYield is the share of green weight that survives roasting.
var RoastYield = decimal.RequireFromString("0.85")

type InventoryRow struct {
	ID           int64     `json:"id" dynamodbav:"id"`
	CoffeeID     string    `json:"coffee" dynamodbav:"coffee_id"`
	CoffeeName   string    `json:"coffee_name" dynamodbav:"coffee_name"`
	GreenGrams   int64     `json:"green_inventory" dynamodbav:"green_inventory"`
	RoastedGrams int64     `json:"roasted_inventory" dynamodbav:"roasted_inventory"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}

// RoastedYield returns the roasted grams credited for greenUsed grams of
// green coffee, rounded half up.
func RoastedYield(greenUsed int64) int64 {
	return decimal.NewFromInt(greenUsed).Mul(RoastYield).Round(0).IntPart()
}

// RoastAdjustment is one row's change in a roast session. ExpectedGreen is
// the green stock the adjustment was computed from.
type RoastAdjustment struct {
	InventoryID     int64
	GreenUsed       int64
	ExpectedGreen   int64
	NewGreenGrams   int64
	NewRoastedGrams int64
}

func NewRoastAdjustment(row InventoryRow, greenUsed int64) RoastAdjustment {
	return RoastAdjustment{
		InventoryID:     row.ID,
		GreenUsed:       greenUsed,
		ExpectedGreen:   row.GreenGrams,
		NewGreenGrams:   row.GreenGrams - greenUsed,
		NewRoastedGrams: row.RoastedGrams + RoastedYield(greenUsed),
	}
}

package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"gbp": "£",
	"eur": "€",
	"usd": "$",
}

// FormatMoney renders an amount in minor units, e.g. 1250 gbp as "£12.50".
func FormatMoney(amount int64, currency string) string {
	value := decimal.New(amount, -2).StringFixed(2)
	if symbol, ok := currencySymbols[strings.ToLower(currency)]; ok {
		return symbol + value
	}
	return value + " " + strings.ToUpper(currency)
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tracked precious-metal sub-series of the price history table.
// A row where every one of these is exactly zero means "market closed",
// never "price is zero".
var TrackedMetals = []string{"gold", "silver", "platinum", "palladium"}

// MetalPriceObservation is one daily row of the price history table.
// All four values share a single unit basis (per troy ounce after the
// gram-basis migration).
type MetalPriceObservation struct {
	Date      time.Time       `json:"date"`
	Gold      decimal.Decimal `json:"gold"`
	Silver    decimal.Decimal `json:"silver"`
	Platinum  decimal.Decimal `json:"platinum"`
	Palladium decimal.Decimal `json:"palladium"`
}

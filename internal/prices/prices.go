package prices

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nezhnik/omonete-sub001/internal/metrics"
)

// GramsPerTroyOunce converts a per-gram price to the per-troy-ounce basis.
var GramsPerTroyOunce = decimal.NewFromFloat(31.1035)

// Per-metal ceilings separating plausible per-gram prices from per-ounce
// prices (RUB). A value below the ceiling is still on the old per-gram
// basis; a rescaled value always lands above it, which is what makes the
// migration a single guarded run.
var GramCeilings = map[string]decimal.Decimal{
	"gold":      decimal.NewFromInt(10000),
	"silver":    decimal.NewFromInt(500),
	"platinum":  decimal.NewFromInt(10000),
	"palladium": decimal.NewFromInt(10000),
}

// PriceStore is the subset of the catalog store the price rules need.
type PriceStore interface {
	RescalePrices(ctx context.Context, factor decimal.Decimal, gramCeilings map[string]decimal.Decimal) (map[string]int64, error)
	PurgeClosedMarketRows(ctx context.Context) (int64, error)
}

// MigrateToOunceBasis rewrites every price still expressed per gram to the
// per-troy-ounce basis. Zero values are "no observation" and never rescaled.
// Re-running after the basis has changed matches no rows and writes nothing.
func MigrateToOunceBasis(ctx context.Context, st PriceStore, logger *zap.Logger) (map[string]int64, error) {
	affected, err := st.RescalePrices(ctx, GramsPerTroyOunce, GramCeilings)
	if err != nil {
		return nil, fmt.Errorf("migrate price basis: %w", err)
	}

	var total int64
	for metal, n := range affected {
		total += n
		logger.Info("prices.rescaled",
			zap.String("metal", metal),
			zap.Int64("rows", n))
	}
	if total == 0 {
		logger.Info("prices.rescale_noop", zap.String("reason", "no rows on gram basis"))
	}
	return affected, nil
}

// PurgeHolidays deletes rows where all tracked metals are exactly zero.
// Such rows mean the market was closed that day, not that prices were zero.
func PurgeHolidays(ctx context.Context, st PriceStore, logger *zap.Logger) (int64, error) {
	n, err := st.PurgeClosedMarketRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge holidays: %w", err)
	}
	metrics.PurgedPriceRows.Add(float64(n))
	logger.Info("prices.holidays_purged", zap.Int64("rows", n))
	return n, nil
}

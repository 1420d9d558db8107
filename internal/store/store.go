package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// Catalog defines read/update access to the coin catalog and the metal
// price history. It is the only component touching persistent state.
type Catalog interface {
	QueryCoins(ctx context.Context, f *Filter) ([]model.CoinRecord, error)
	CountCoins(ctx context.Context, f *Filter) (int64, error)
	UpdateCoin(ctx context.Context, id int64, deltas model.FieldDeltas) (int64, error)
	ListCoinsPage(ctx context.Context, limit, offset int) ([]model.CoinRecord, error)
	RescalePrices(ctx context.Context, factor decimal.Decimal, gramCeilings map[string]decimal.Decimal) (map[string]int64, error)
	PurgeClosedMarketRows(ctx context.Context) (int64, error)
	LatestObservation(ctx context.Context) (*model.MetalPriceObservation, error)
	Ping(ctx context.Context) error
	Close() error
}

// Columns a normalization rule is allowed to rewrite. Anything else in a
// delta is a programming error and rejected before touching the store.
var updatableCoinColumns = map[string]bool{
	"title":          true,
	"country":        true,
	"face_value":     true,
	"metal":          true,
	"metal_fineness": true,
	"mint":           true,
	"mint_short":     true,
	"weight_grams":   true,
	"weight_ounces":  true,
}

// Columns added after the original schema; a write that fails because one of
// these is absent is retried without it.
var optionalCoinColumns = map[string]bool{
	"metal_fineness": true,
}

type PGStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New connects to Postgres and returns the catalog store. The DSN is parsed
// before any connection is attempted, so a malformed value fails fast.
func New(ctx context.Context, dsn string, logger *zap.Logger) (*PGStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid pg config: %w", err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PGStore{pool: pool, logger: logger}, nil
}

const coinColumns = `
	id,
	COALESCE(title, ''),
	COALESCE(country, ''),
	COALESCE(face_value, ''),
	COALESCE(metal, ''),
	metal_fineness,
	release_date,
	COALESCE(catalog_number, ''),
	COALESCE(mint, ''),
	mint_short,
	image_obverse,
	image_reverse,
	image_urls,
	weight_grams,
	weight_ounces,
	series_name,
	mintage_display`

func scanCoin(row pgx.Row) (model.CoinRecord, error) {
	var rec model.CoinRecord
	err := row.Scan(
		&rec.ID,
		&rec.Title,
		&rec.Country,
		&rec.FaceValue,
		&rec.Metal,
		&rec.MetalFineness,
		&rec.ReleaseDate,
		&rec.CatalogNumber,
		&rec.Mint,
		&rec.MintShort,
		&rec.ImageObverse,
		&rec.ImageReverse,
		&rec.ImageURLs,
		&rec.WeightGrams,
		&rec.WeightOunces,
		&rec.SeriesName,
		&rec.MintageDisplay,
	)
	return rec, err
}

// QueryCoins returns records matching the filter, in stable id order. A nil
// or empty filter is a full-table scan.
func (s *PGStore) QueryCoins(ctx context.Context, f *Filter) ([]model.CoinRecord, error) {
	where, args := f.whereClause(1)
	q := `SELECT ` + coinColumns + ` FROM catalog.coins` + where + ` ORDER BY id`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query coins: %w", err)
	}
	defer rows.Close()

	var results []model.CoinRecord
	for rows.Next() {
		rec, err := scanCoin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coin: %w", err)
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// CountCoins returns the number of records matching the filter, with no
// limit/offset applied.
func (s *PGStore) CountCoins(ctx context.Context, f *Filter) (int64, error) {
	where, args := f.whereClause(1)
	q := `SELECT COUNT(*) FROM catalog.coins` + where

	var total int64
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count coins: %w", err)
	}
	return total, nil
}

// ListCoinsPage returns one export page in the snapshot total order:
// release date descending (unknown dates last), then id descending.
func (s *PGStore) ListCoinsPage(ctx context.Context, limit, offset int) ([]model.CoinRecord, error) {
	q := `SELECT ` + coinColumns + `
		FROM catalog.coins
		ORDER BY release_date DESC NULLS LAST, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list coins page: %w", err)
	}
	defer rows.Close()

	var results []model.CoinRecord
	for rows.Next() {
		rec, err := scanCoin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coin: %w", err)
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// UpdateCoin applies the staged deltas to one record as a single statement,
// which is its own transaction boundary. Returns the affected-row count.
//
// Writes that touch an optional column absent from an older schema are
// retried once without that column (reduced write).
func (s *PGStore) UpdateCoin(ctx context.Context, id int64, deltas model.FieldDeltas) (int64, error) {
	if len(deltas) == 0 {
		return 0, nil
	}
	for col := range deltas {
		if !updatableCoinColumns[col] {
			return 0, fmt.Errorf("update coin %d: column %q is not updatable", id, col)
		}
	}

	n, err := s.execUpdate(ctx, id, deltas)
	if err == nil {
		return n, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42703" { // undefined_column
		reduced := model.FieldDeltas{}
		for col, v := range deltas {
			if !optionalCoinColumns[col] {
				reduced[col] = v
			}
		}
		if len(reduced) > 0 && len(reduced) < len(deltas) {
			s.logger.Warn("store.update_coin.reduced_write",
				zap.Int64("id", id),
				zap.String("missing_column", pgErr.ColumnName))
			return s.execUpdate(ctx, id, reduced)
		}
	}
	return 0, err
}

func (s *PGStore) execUpdate(ctx context.Context, id int64, deltas model.FieldDeltas) (int64, error) {
	cols := make([]string, 0, len(deltas))
	for col := range deltas {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, deltas[col])
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE catalog.coins SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("update coin %d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

// RescalePrices rewrites price columns from the per-gram basis to the
// per-ounce basis by the given factor. A column value qualifies only while
// it is strictly positive and below the per-metal gram ceiling, so a second
// run matches nothing and writes nothing. Returns affected rows per metal.
func (s *PGStore) RescalePrices(ctx context.Context, factor decimal.Decimal, gramCeilings map[string]decimal.Decimal) (map[string]int64, error) {
	affected := make(map[string]int64, len(model.TrackedMetals))
	for _, metal := range model.TrackedMetals {
		ceiling, ok := gramCeilings[metal]
		if !ok {
			return nil, fmt.Errorf("rescale prices: no gram ceiling for %q", metal)
		}

		q := fmt.Sprintf(`UPDATE catalog.price_history
			SET %s = ROUND(%s * $1, 2)
			WHERE %s > 0 AND %s < $2`, metal, metal, metal, metal)

		tag, err := s.pool.Exec(ctx, q, factor, ceiling)
		if err != nil {
			return nil, fmt.Errorf("rescale prices (%s): %w", metal, err)
		}
		affected[metal] = tag.RowsAffected()
	}
	return affected, nil
}

// PurgeClosedMarketRows deletes observations where every tracked metal is
// exactly zero ("market closed" rows). Rows with any positive value are
// retained. The delete is irreversible; the exact count is returned.
func (s *PGStore) PurgeClosedMarketRows(ctx context.Context) (int64, error) {
	conds := make([]string, 0, len(model.TrackedMetals))
	for _, metal := range model.TrackedMetals {
		conds = append(conds, metal+" = 0")
	}
	q := `DELETE FROM catalog.price_history WHERE ` + strings.Join(conds, " AND ")

	tag, err := s.pool.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("purge closed-market rows: %w", err)
	}
	return tag.RowsAffected(), nil
}

// LatestObservation returns the most recent price row, or nil when the
// table is empty. Used to warn when the external price updater goes stale.
func (s *PGStore) LatestObservation(ctx context.Context) (*model.MetalPriceObservation, error) {
	q := `SELECT price_date, gold, silver, platinum, palladium
		FROM catalog.price_history
		ORDER BY price_date DESC
		LIMIT 1`

	var obs model.MetalPriceObservation
	err := s.pool.QueryRow(ctx, q).Scan(&obs.Date, &obs.Gold, &obs.Silver, &obs.Platinum, &obs.Palladium)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest observation: %w", err)
	}
	return &obs, nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

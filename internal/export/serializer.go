package export

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/nezhnik/omonete-sub001/internal/derive"
	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// ExportStore is the subset of the catalog store the serializer needs.
type ExportStore interface {
	ListCoinsPage(ctx context.Context, limit, offset int) ([]model.CoinRecord, error)
	CountCoins(ctx context.Context, f *store.Filter) (int64, error)
}

// Page selects one window of the ordered snapshot.
type Page struct {
	Limit  int
	Offset int
}

// Serializer projects normalized records into the external snapshot shape.
// Ordering is the catalog total order (release date descending, then id
// descending) so two exports over identical store state are byte-identical.
type Serializer struct {
	store        ExportStore
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
}

func NewSerializer(st ExportStore, defaultLimit, maxLimit int, logger *zap.Logger) *Serializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	if maxLimit <= 0 {
		maxLimit = 500
	}
	return &Serializer{store: st, defaultLimit: defaultLimit, maxLimit: maxLimit, logger: logger}
}

// Export returns one page of summaries plus the total count over the same
// scope. The limit is clamped to the maximum; offset defaults to 0. A store
// failure fails the whole call; no partial page is returned.
func (s *Serializer) Export(ctx context.Context, page Page) (*model.CoinList, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	records, err := s.store.ListCoinsPage(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("export page: %w", err)
	}

	total, err := s.store.CountCoins(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("export total: %w", err)
	}

	list := &model.CoinList{
		Coins: make([]model.CoinSummary, 0, len(records)),
		Total: total,
	}
	for i := range records {
		list.Coins = append(list.Coins, Summarize(&records[i]))
	}
	return list, nil
}

// Summarize builds the list projection of one record. ImageURL is never
// empty: the placeholder substitutes for a missing image.
func Summarize(rec *model.CoinRecord) model.CoinSummary {
	image := derive.DisplayImage(rec.ImageObverse, rec.ImageURLs)
	if image == "" {
		image = derive.PlaceholderImage
	}
	return model.CoinSummary{
		ID:         strconv.FormatInt(rec.ID, 10),
		Title:      rec.Title,
		Country:    derive.DisplayCountry(rec.Country),
		Year:       derive.DisplayYear(rec.ReleaseDate),
		FaceValue:  rec.FaceValue,
		ImageURL:   image,
		SeriesName: strVal(rec.SeriesName),
	}
}

// Detail builds the full per-record projection for the detail shard.
func Detail(rec *model.CoinRecord) model.CoinDetail {
	image := derive.DisplayImage(rec.ImageObverse, rec.ImageURLs)
	if image == "" {
		image = derive.PlaceholderImage
	}
	releaseDate := ""
	if rec.ReleaseDate != nil {
		releaseDate = rec.ReleaseDate.Format("2006-01-02")
	}
	return model.CoinDetail{
		ID:             strconv.FormatInt(rec.ID, 10),
		Title:          rec.Title,
		Country:        derive.DisplayCountry(rec.Country),
		Year:           derive.DisplayYear(rec.ReleaseDate),
		FaceValue:      rec.FaceValue,
		Metal:          rec.Metal,
		MetalFineness:  strVal(rec.MetalFineness),
		ReleaseDate:    releaseDate,
		CatalogNumber:  rec.CatalogNumber,
		Mint:           rec.Mint,
		MintShort:      strVal(rec.MintShort),
		ImageURL:       image,
		ImageURLs:      rec.ImageURLs,
		WeightGrams:    strVal(rec.WeightGrams),
		WeightOunces:   strVal(rec.WeightOunces),
		SeriesName:     strVal(rec.SeriesName),
		MintageDisplay: strVal(rec.MintageDisplay),
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package model

import (
	"time"
)

// CoinRecord is one minted-coin entry as stored in the catalog table.
// Raw fields arrive from manual entry and periodic imports and may carry
// markup, misspelled mint names, or an embedded fineness ratio in Metal.
type CoinRecord struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Country        string     `json:"country"`
	FaceValue      string     `json:"face_value"` // currency + denomination combined, e.g. "3 рубля"
	Metal          string     `json:"metal"`
	MetalFineness  *string    `json:"metal_fineness,omitempty"` // ratio token, e.g. "925" or "925/1000"
	ReleaseDate    *time.Time `json:"release_date,omitempty"`
	CatalogNumber  string     `json:"catalog_number"` // central-bank reference, may carry a mint-mark suffix
	Mint           string     `json:"mint"`
	MintShort      *string    `json:"mint_short,omitempty"`
	ImageObverse   *string    `json:"image_obverse,omitempty"`
	ImageReverse   *string    `json:"image_reverse,omitempty"`
	ImageURLs      []string   `json:"image_urls,omitempty"` // ordered fallback paths
	WeightGrams    *string    `json:"weight_grams,omitempty"`
	WeightOunces   *string    `json:"weight_ounces,omitempty"`
	SeriesName     *string    `json:"series_name,omitempty"`
	MintageDisplay *string    `json:"mintage_display,omitempty"` // e.g. "до 1 000 000"
}

// FieldDeltas is the set of column updates a normalization rule stages for
// one record. Keys are store column names.
type FieldDeltas map[string]any

// CoinSummary is the list-snapshot projection of a record. ImageURL is never
// empty: a placeholder path substitutes for records without an image.
type CoinSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Country    string `json:"country"`
	Year       int    `json:"year"`
	FaceValue  string `json:"faceValue,omitempty"`
	ImageURL   string `json:"imageUrl"`
	SeriesName string `json:"seriesName,omitempty"`
}

// CoinDetail is the full per-record projection written as one shard of the
// detail snapshot.
type CoinDetail struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Country        string   `json:"country"`
	Year           int      `json:"year"`
	FaceValue      string   `json:"faceValue,omitempty"`
	Metal          string   `json:"metal,omitempty"`
	MetalFineness  string   `json:"metalFineness,omitempty"`
	ReleaseDate    string   `json:"releaseDate,omitempty"`
	CatalogNumber  string   `json:"catalogNumber,omitempty"`
	Mint           string   `json:"mint,omitempty"`
	MintShort      string   `json:"mintShort,omitempty"`
	ImageURL       string   `json:"imageUrl"`
	ImageURLs      []string `json:"imageUrls,omitempty"`
	WeightGrams    string   `json:"weightGrams,omitempty"`
	WeightOunces   string   `json:"weightOunces,omitempty"`
	SeriesName     string   `json:"seriesName,omitempty"`
	MintageDisplay string   `json:"mintageDisplay,omitempty"`
}

// CoinList is the paginated list snapshot artifact.
type CoinList struct {
	Coins []CoinSummary `json:"coins"`
	Total int64         `json:"total"`
}

package normalize

import (
	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// CanonicalMapper rewrites a closed set of known bad spellings of one field
// to the single accepted value. Application is exact-match lookup: a record
// is rewritten only when its stored value equals a listed variant.
type CanonicalMapper struct {
	name        string
	description string
	column      string
	get         func(*model.CoinRecord) string
	variants    map[string]string
}

func (m *CanonicalMapper) Name() string        { return m.name }
func (m *CanonicalMapper) Description() string { return m.description }

// Filter narrows to non-blank values; the exact variant match happens
// in-memory because the filter grammar has no OR across variants.
func (m *CanonicalMapper) Filter() *store.Filter {
	return store.NewFilter().NonBlank(m.column)
}

func (m *CanonicalMapper) Matches(rec *model.CoinRecord) bool {
	_, ok := m.variants[m.get(rec)]
	return ok
}

func (m *CanonicalMapper) Normalize(rec *model.CoinRecord) (model.FieldDeltas, bool) {
	canonical, ok := m.variants[m.get(rec)]
	if !ok || canonical == m.get(rec) {
		return nil, false
	}
	return model.FieldDeltas{m.column: canonical}, true
}

// Known bad spellings of mint names observed in imported data. Keys map to
// the canonical monetary-authority name.
var mintVariants = map[string]string{
	"Лениградский монетный двор":        "Ленинградский монетный двор",
	"ленинградский монетный двор":       "Ленинградский монетный двор",
	"Ленинградский Монетный Двор":       "Ленинградский монетный двор",
	"Моковский монетный двор":           "Московский монетный двор",
	"московский монетный двор":          "Московский монетный двор",
	"Московский Монетный Двор":          "Московский монетный двор",
	"Санкт-петербургский монетный двор": "Санкт-Петербургский монетный двор",
	"С-Петербургский монетный двор":     "Санкт-Петербургский монетный двор",
	"Санкт-Петербургский Монетный Двор": "Санкт-Петербургский монетный двор",
}

// NewCanonicalMintMapper maps known mint-name misspellings to the canonical
// spelling.
func NewCanonicalMintMapper() *CanonicalMapper {
	return &CanonicalMapper{
		name:        "canonical-mint",
		description: "map known misspellings of mint names to the canonical spelling",
		column:      "mint",
		get:         func(rec *model.CoinRecord) string { return rec.Mint },
		variants:    mintVariants,
	}
}

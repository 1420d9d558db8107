package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nezhnik/omonete-sub001/pkg/model"
)

func TestCanonicalMintMapper(t *testing.T) {
	rule := NewCanonicalMintMapper()

	t.Run("known misspelling rewritten", func(t *testing.T) {
		rec := &model.CoinRecord{
			CatalogNumber: "3213-0004-ЛМД",
			Mint:          "Лениградский монетный двор",
		}
		assert.True(t, rule.Matches(rec))
		deltas, changed := rule.Normalize(rec)
		assert.True(t, changed)
		assert.Equal(t, "Ленинградский монетный двор", deltas["mint"])
	})

	t.Run("canonical value produces no further change", func(t *testing.T) {
		rec := &model.CoinRecord{Mint: "Ленинградский монетный двор"}
		assert.False(t, rule.Matches(rec))
		deltas, changed := rule.Normalize(rec)
		assert.False(t, changed)
		assert.Nil(t, deltas)
	})

	t.Run("unlisted value untouched", func(t *testing.T) {
		rec := &model.CoinRecord{Mint: "Монетный двор Парижа"}
		assert.False(t, rule.Matches(rec))
		_, changed := rule.Normalize(rec)
		assert.False(t, changed)
	})

	t.Run("case variants map to one canonical spelling", func(t *testing.T) {
		for _, variant := range []string{
			"московский монетный двор",
			"Московский Монетный Двор",
			"Моковский монетный двор",
		} {
			rec := &model.CoinRecord{Mint: variant}
			deltas, changed := rule.Normalize(rec)
			assert.True(t, changed, "variant %q", variant)
			assert.Equal(t, "Московский монетный двор", deltas["mint"])
		}
	})
}

func TestCanonicalMapper_FilterIsNonBlank(t *testing.T) {
	rule := NewCanonicalMintMapper()
	assert.False(t, rule.Filter().Empty())
}

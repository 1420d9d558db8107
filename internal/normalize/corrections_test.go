package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nezhnik/omonete-sub001/pkg/model"
)

func strPtr(s string) *string { return &s }

func TestTargetedCorrection_GeorgyDenomination(t *testing.T) {
	rule, ok := Lookup("fix-georgy-denomination")
	require.True(t, ok)

	t.Run("wrong record corrected", func(t *testing.T) {
		rec := &model.CoinRecord{
			Title:        "Георгий Победоносец",
			FaceValue:    "3 рубля",
			Metal:        "Серебро",
			ImageObverse: strPtr("/images/coins/5216-0060-obverse.jpg"),
		}
		assert.True(t, rule.Matches(rec))
		deltas, changed := rule.Normalize(rec)
		assert.True(t, changed)
		assert.Equal(t, "50 рублей", deltas["face_value"])
		assert.Equal(t, "Золото", deltas["metal"])
		assert.Equal(t, "999", deltas["metal_fineness"])
	})

	t.Run("already corrected record is a no-op", func(t *testing.T) {
		rec := &model.CoinRecord{
			Title:         "Георгий Победоносец",
			FaceValue:     "50 рублей",
			Metal:         "Золото",
			MetalFineness: strPtr("999"),
			ImageObverse:  strPtr("/images/coins/5216-0060-obverse.jpg"),
		}
		assert.False(t, rule.Matches(rec))
	})

	t.Run("same title different image untouched", func(t *testing.T) {
		rec := &model.CoinRecord{
			Title:        "Георгий Победоносец",
			FaceValue:    "3 рубля",
			ImageObverse: strPtr("/images/coins/5111-0178-obverse.jpg"),
		}
		assert.False(t, rule.Matches(rec))
	})

	t.Run("missing image path untouched", func(t *testing.T) {
		rec := &model.CoinRecord{
			Title:     "Георгий Победоносец",
			FaceValue: "3 рубля",
		}
		assert.False(t, rule.Matches(rec))
	})
}

func TestTargetedCorrection_FilterIsNarrow(t *testing.T) {
	rule, ok := Lookup("fix-georgy-denomination")
	require.True(t, ok)
	// The predicate pins the exact wrong value, the title and the image
	// signature, so the store only returns candidate rows.
	assert.False(t, rule.Filter().Empty())
}

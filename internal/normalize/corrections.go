package normalize

import (
	"strings"

	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// TargetedCorrection is a one-off rule scoped by a maximally narrow
// predicate: an exact title substring, the exact wrong value currently
// stored, and an image-path signature. Once the record carries the correct
// values the rule matches nothing and reports zero changes.
type TargetedCorrection struct {
	name          string
	description   string
	titleContains string
	wrongValue    string // current face_value the record must still carry
	imageSig      string // substring of the obverse image path
	deltas        model.FieldDeltas
}

func (c *TargetedCorrection) Name() string        { return c.name }
func (c *TargetedCorrection) Description() string { return c.description }

func (c *TargetedCorrection) Filter() *store.Filter {
	return store.NewFilter().
		Eq("face_value", c.wrongValue).
		Like("title", "%"+c.titleContains+"%").
		Like("image_obverse", "%"+c.imageSig+"%")
}

func (c *TargetedCorrection) Matches(rec *model.CoinRecord) bool {
	if rec.FaceValue != c.wrongValue {
		return false
	}
	if !strings.Contains(rec.Title, c.titleContains) {
		return false
	}
	if rec.ImageObverse == nil || !strings.Contains(*rec.ImageObverse, c.imageSig) {
		return false
	}
	return true
}

func (c *TargetedCorrection) Normalize(rec *model.CoinRecord) (model.FieldDeltas, bool) {
	deltas := model.FieldDeltas{}
	for col, v := range c.deltas {
		if columnValue(rec, col) != v {
			deltas[col] = v
		}
	}
	if len(deltas) == 0 {
		return nil, false
	}
	return deltas, true
}

// TargetedCorrections is the registry of record-specific fixes. Each entry
// exists because a concrete record was imported with the wrong denomination
// or metal attached to its image.
func TargetedCorrections() []Rule {
	return []Rule{
		&TargetedCorrection{
			name:          "fix-georgy-denomination",
			description:   "gold Георгий Победоносец imported with the silver 3-ruble denomination",
			titleContains: "Георгий Победоносец",
			wrongValue:    "3 рубля",
			imageSig:      "5216-0060",
			deltas: model.FieldDeltas{
				"face_value":     "50 рублей",
				"metal":          "Золото",
				"metal_fineness": "999",
			},
		},
	}
}

package normalize

import (
	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// MarkupStripper cleans embedded markup and trailing administrative text out
// of titles and mint names.
type MarkupStripper struct{}

func NewMarkupStripper() *MarkupStripper {
	return &MarkupStripper{}
}

func (s *MarkupStripper) Name() string { return "strip-markup" }

func (s *MarkupStripper) Description() string {
	return "remove markup tokens, HTML entities and trailing mintage/edge clauses from titles and mint names"
}

// Filter is a full scan: markup can hide anywhere (entities, tags, stray
// whitespace) and the store filter grammar cannot express "contains any of
// them" without OR.
func (s *MarkupStripper) Filter() *store.Filter {
	return store.NewFilter()
}

func (s *MarkupStripper) Matches(rec *model.CoinRecord) bool {
	return CleanText(rec.Title) != rec.Title || CleanText(rec.Mint) != rec.Mint
}

func (s *MarkupStripper) Normalize(rec *model.CoinRecord) (model.FieldDeltas, bool) {
	deltas := model.FieldDeltas{}
	if clean := CleanText(rec.Title); clean != rec.Title {
		deltas["title"] = clean
	}
	if clean := CleanText(rec.Mint); clean != rec.Mint {
		deltas["mint"] = clean
	}
	if len(deltas) == 0 {
		return nil, false
	}
	return deltas, true
}

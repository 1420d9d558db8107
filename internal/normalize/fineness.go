package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// UnknownMetal is the canonical sentinel for a blank metal field.
const UnknownMetal = "—"

var (
	finenessTokenRegex = regexp.MustCompile(`\b(\d{3,4}(?:/\d{3,4})?)\b`)
	anyDigitRegex      = regexp.MustCompile(`\d`)
)

// FinenessExtractor pulls an embedded fineness ratio (e.g. "925" or
// "925/1000") out of the metal name into the dedicated fineness field,
// leaving the metal name alone and capitalized. After this rule runs no
// metal value matches a ratio pattern.
type FinenessExtractor struct{}

func NewFinenessExtractor() *FinenessExtractor {
	return &FinenessExtractor{}
}

func (e *FinenessExtractor) Name() string { return "extract-fineness" }

func (e *FinenessExtractor) Description() string {
	return "move an embedded fineness ratio out of the metal name and capitalize the metal"
}

// Filter is a full scan so blank metal fields also receive the unknown
// sentinel.
func (e *FinenessExtractor) Filter() *store.Filter {
	return store.NewFilter()
}

func (e *FinenessExtractor) Matches(rec *model.CoinRecord) bool {
	metal := strings.TrimSpace(rec.Metal)
	if metal == "" {
		return true
	}
	if anyDigitRegex.MatchString(metal) {
		return true
	}
	return capitalize(metal) != rec.Metal
}

func (e *FinenessExtractor) Normalize(rec *model.CoinRecord) (model.FieldDeltas, bool) {
	metal := strings.TrimSpace(rec.Metal)
	if metal == "" {
		if rec.Metal == UnknownMetal {
			return nil, false
		}
		return model.FieldDeltas{"metal": UnknownMetal}, true
	}

	token := finenessTokenRegex.FindString(metal)
	if token == "" && anyDigitRegex.MatchString(metal) {
		// Digits present but not a recognizable ratio: leave the record
		// alone rather than guess.
		return nil, false
	}

	name := metal
	if token != "" {
		// Strip every ratio token, not just the matched one, so a
		// bimetallic value like "Золото 900, серебро 925" converges in a
		// single pass. The first token is the one recorded as fineness.
		name = finenessTokenRegex.ReplaceAllString(name, "")
		name = whitespaceRegex.ReplaceAllString(name, " ")
		name = strings.ReplaceAll(name, " ,", ",")
		name = strings.ReplaceAll(name, " ;", ";")
		name = strings.Trim(strings.TrimSpace(name), ",;-")
		name = strings.TrimSpace(name)
	}
	name = capitalize(name)
	if name == "" {
		name = UnknownMetal
	}

	deltas := model.FieldDeltas{}
	if name != rec.Metal {
		deltas["metal"] = name
	}
	if token != "" && (rec.MetalFineness == nil || *rec.MetalFineness != token) {
		deltas["metal_fineness"] = token
	}
	if len(deltas) == 0 {
		return nil, false
	}
	return deltas, true
}

// capitalize upper-cases the first rune only; the rest of the name is left
// as stored.
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

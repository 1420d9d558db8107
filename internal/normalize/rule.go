package normalize

import (
	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// Rule is a named, pure, idempotent field correction. Filter narrows the
// candidate set at the store; Normalize recomputes the eligible fields and
// stages deltas only when the corrected value differs from the stored one,
// so a second run over a converged catalog stages nothing.
type Rule interface {
	// Name identifies the rule on the CLI and in run reports.
	Name() string

	// Description is a one-line human-readable summary for scan output.
	Description() string

	// Filter is the selection predicate pushed down to the store.
	Filter() *store.Filter

	// Matches reports whether the record belongs to the rule's domain.
	// The runner uses it to tell a matched-but-skipped record apart from
	// one the pushed-down filter over-selected.
	Matches(rec *model.CoinRecord) bool

	// Normalize returns the staged deltas for the record and whether the
	// record changed. A (nil, false) result means the record is already
	// clean, or the rule cannot safely transform it and skips it.
	Normalize(rec *model.CoinRecord) (model.FieldDeltas, bool)
}

// Registry is the ordered set of catalog rules. Broad cleanups run before
// narrow one-off corrections so a correction sees cleaned input.
func Registry() []Rule {
	rules := []Rule{
		NewMarkupStripper(),
		NewFinenessExtractor(),
		NewCanonicalMintMapper(),
	}
	rules = append(rules, TargetedCorrections()...)
	return rules
}

// Lookup returns the registered rule with the given name.
func Lookup(name string) (Rule, bool) {
	for _, r := range Registry() {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

package normalize

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nezhnik/omonete-sub001/internal/metrics"
	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// CatalogStore is the subset of the store the runner needs.
type CatalogStore interface {
	QueryCoins(ctx context.Context, f *store.Filter) ([]model.CoinRecord, error)
	UpdateCoin(ctx context.Context, id int64, deltas model.FieldDeltas) (int64, error)
}

// Runner executes rules over the catalog: Select (pull candidates through
// the rule's filter), Evaluate (stage deltas), Commit (one write per
// record), Report. Records are processed in the order the store returns
// them. A commit failure on one record does not block the rest.
type Runner struct {
	store  CatalogStore
	logger *zap.Logger
}

func NewRunner(st CatalogStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: st, logger: logger}
}

// Run applies one rule and commits staged updates. Safe to execute
// repeatedly: a converged catalog yields zero changes.
func (r *Runner) Run(ctx context.Context, rule Rule) (*model.RunReport, error) {
	return r.run(ctx, rule, true)
}

// Scan evaluates one rule without committing, reporting what would change.
func (r *Runner) Scan(ctx context.Context, rule Rule) (*model.RunReport, error) {
	return r.run(ctx, rule, false)
}

func (r *Runner) run(ctx context.Context, rule Rule, commit bool) (*model.RunReport, error) {
	report := &model.RunReport{
		RunID:     uuid.New(),
		Rule:      rule.Name(),
		StartedAt: time.Now().UTC(),
	}

	records, err := r.store.QueryCoins(ctx, rule.Filter())
	if err != nil {
		return nil, fmt.Errorf("rule %s: select: %w", rule.Name(), err)
	}

	for i := range records {
		rec := &records[i]
		report.Inspected++

		if !rule.Matches(rec) {
			continue
		}

		deltas, changed := rule.Normalize(rec)
		if !changed {
			// Matched but nothing to rewrite safely: skip and continue.
			report.Skipped++
			continue
		}

		for _, col := range sortedColumns(deltas) {
			report.Changes = append(report.Changes, model.ChangeRecord{
				RecordID: rec.ID,
				Field:    col,
				Before:   columnValue(rec, col),
				After:    fmt.Sprint(deltas[col]),
			})
		}

		if !commit {
			report.Changed++
			continue
		}

		if _, err := r.store.UpdateCoin(ctx, rec.ID, deltas); err != nil {
			report.Failed++
			r.logger.Error("runner.commit_failed",
				zap.String("rule", rule.Name()),
				zap.Int64("record_id", rec.ID),
				zap.Error(err))
			continue
		}
		report.Changed++
	}

	report.Duration = time.Since(report.StartedAt)
	metrics.ObserveRun(rule.Name(), report.Inspected, report.Changed)

	r.logger.Info("runner.run_complete",
		zap.String("rule", rule.Name()),
		zap.String("run_id", report.RunID.String()),
		zap.Bool("commit", commit),
		zap.Int("inspected", report.Inspected),
		zap.Int("changed", report.Changed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))

	return report, nil
}

// RunAll applies every registered rule in order. A store failure aborts only
// the failing rule's run; remaining rules still execute. The first error is
// returned alongside the reports that did complete.
func (r *Runner) RunAll(ctx context.Context) ([]*model.RunReport, error) {
	var reports []*model.RunReport
	var firstErr error

	for _, rule := range Registry() {
		report, err := r.Run(ctx, rule)
		if err != nil {
			r.logger.Error("runner.rule_failed",
				zap.String("rule", rule.Name()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		reports = append(reports, report)
	}
	return reports, firstErr
}

func sortedColumns(deltas model.FieldDeltas) []string {
	cols := make([]string, 0, len(deltas))
	for col := range deltas {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// columnValue renders a record's current value for a store column, for
// before/after audit pairs.
func columnValue(rec *model.CoinRecord, col string) string {
	switch col {
	case "title":
		return rec.Title
	case "country":
		return rec.Country
	case "face_value":
		return rec.FaceValue
	case "metal":
		return rec.Metal
	case "metal_fineness":
		return deref(rec.MetalFineness)
	case "mint":
		return rec.Mint
	case "mint_short":
		return deref(rec.MintShort)
	case "weight_grams":
		return deref(rec.WeightGrams)
	case "weight_ounces":
		return deref(rec.WeightOunces)
	default:
		return ""
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

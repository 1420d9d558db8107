package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nezhnik/omonete-sub001/internal/export"
	"github.com/nezhnik/omonete-sub001/internal/lifecycle"
	"github.com/nezhnik/omonete-sub001/internal/normalize"
	"github.com/nezhnik/omonete-sub001/internal/publisher"
	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// staleAfter is how old the newest price observation may be before the
// external price updater is considered stale.
const staleAfter = 7 * 24 * time.Hour

// CycleRunner periodically runs the full pipeline: normalize the catalog,
// export a fresh snapshot, purge the externally-refreshed chart artifact,
// and emit events for downstream consumers.
type CycleRunner struct {
	logger        *zap.Logger
	store         store.Catalog
	runner        *normalize.Runner
	writer        *export.Writer
	cache         *export.PageCache // nil when Redis is not configured
	serializer    *export.Serializer
	pub           *publisher.Publisher // nil when NATS is not configured
	chartArtifact string
	pageSize      int
	interval      time.Duration
	runOnStart    bool
	stopCh        chan struct{}
}

func NewCycleRunner(
	logger *zap.Logger,
	st store.Catalog,
	runner *normalize.Runner,
	serializer *export.Serializer,
	writer *export.Writer,
	cache *export.PageCache,
	pub *publisher.Publisher,
	chartArtifact string,
	pageSize int,
	interval time.Duration,
	runOnStart bool,
) *CycleRunner {
	return &CycleRunner{
		logger:        logger,
		store:         st,
		runner:        runner,
		serializer:    serializer,
		writer:        writer,
		cache:         cache,
		pub:           pub,
		chartArtifact: chartArtifact,
		pageSize:      pageSize,
		interval:      interval,
		runOnStart:    runOnStart,
		stopCh:        make(chan struct{}),
	}
}

// Start runs the cycle loop. With runOnStart set the first cycle executes
// immediately; otherwise it waits a full interval, which keeps a restart
// during the nightly site build from racing an in-flight export.
func (r *CycleRunner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("cycle.started",
		zap.Duration("interval", r.interval),
		zap.Bool("run_on_start", r.runOnStart))
	if r.runOnStart {
		r.runOnce(ctx)
	}

	for {
		select {
		case <-ticker.C:
			r.runOnce(ctx)
		case <-r.stopCh:
			r.logger.Info("cycle.stopped (manual stop)")
			return
		case <-ctx.Done():
			r.logger.Info("cycle.stopped (context canceled)")
			return
		}
	}
}

// Stop gracefully halts the runner.
func (r *CycleRunner) Stop() {
	close(r.stopCh)
}

// runOnce executes one pipeline cycle. Each stage is an independent unit:
// a failure is logged and the remaining stages still run.
func (r *CycleRunner) runOnce(ctx context.Context) {
	start := time.Now()
	r.logger.Info("cycle.running")

	reports, err := r.runner.RunAll(ctx)
	if err != nil {
		r.logger.Error("cycle.normalize_failed", zap.Error(err))
	}
	var changed int
	for _, rep := range reports {
		changed += rep.Changed
	}
	if r.pub != nil {
		_ = r.pub.PublishEvent(ctx, model.SubjectCatalogNormalized, "catalog.normalized", map[string]any{
			"rules":   len(reports),
			"changed": changed,
		})
	}

	count, err := r.writer.WriteSnapshot(ctx)
	if err != nil {
		r.logger.Error("cycle.export_failed", zap.Error(err))
	} else {
		if r.cache != nil {
			if err := r.cache.Warm(ctx, r.serializer, r.pageSize, 5); err != nil {
				r.logger.Warn("cycle.cache_warm_failed", zap.Error(err))
			}
		}
		// The chart artifact is refreshed by an external scheduled job;
		// never let our build output shadow it.
		if _, err := lifecycle.PurgeArtifact(r.chartArtifact, r.logger); err != nil {
			r.logger.Error("cycle.purge_failed", zap.Error(err))
		}
		if r.pub != nil {
			_ = r.pub.PublishEvent(ctx, model.SubjectSnapshotExported, "catalog.snapshot.exported", map[string]any{
				"records": count,
			})
		}
	}

	r.checkPriceFreshness(ctx)

	r.logger.Info("cycle.complete",
		zap.Int("records_changed", changed),
		zap.Duration("duration", time.Since(start)))
}

func (r *CycleRunner) checkPriceFreshness(ctx context.Context) {
	obs, err := r.store.LatestObservation(ctx)
	if err != nil {
		r.logger.Warn("cycle.price_freshness_check_failed", zap.Error(err))
		return
	}
	if obs == nil {
		r.logger.Warn("cycle.price_history_empty")
		return
	}
	if age := time.Since(obs.Date); age > staleAfter {
		r.logger.Warn("cycle.price_feed_stale",
			zap.Time("latest", obs.Date),
			zap.Duration("age", age))
	}
}

package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/nezhnik/omonete-sub001/internal/metrics"
	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// Writer materializes the snapshot as JSON artifacts: a list snapshot at
// <dir>/coins.json and one detail shard per record at <dir>/coins/<id>.json.
// The snapshot is recreated wholesale on every run; artifacts are
// disposable and carry no identity beyond their path.
type Writer struct {
	serializer *Serializer
	dir        string
	logger     *zap.Logger
}

func NewWriter(serializer *Serializer, dir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{serializer: serializer, dir: dir, logger: logger}
}

// WriteSnapshot pages through the whole catalog and writes the artifacts.
// Returns the record count written. Any store or filesystem failure aborts
// the export; a crashed run never leaves a truncated list snapshot because
// files land via temp-file rename.
func (w *Writer) WriteSnapshot(ctx context.Context) (int64, error) {
	start := time.Now()

	detailDir := filepath.Join(w.dir, "coins")
	if err := os.MkdirAll(detailDir, 0o755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}

	// One paged scan feeds both the list snapshot and the detail shards, so
	// an import landing mid-export cannot make them disagree within one
	// snapshot.
	records, err := w.collectRecords(ctx)
	if err != nil {
		return 0, err
	}

	full := &model.CoinList{
		Coins: make([]model.CoinSummary, 0, len(records)),
		Total: int64(len(records)),
	}
	for i := range records {
		full.Coins = append(full.Coins, Summarize(&records[i]))
	}
	if err := writeJSON(filepath.Join(w.dir, "coins.json"), full); err != nil {
		return 0, err
	}

	for i := range records {
		detail := Detail(&records[i])
		path := filepath.Join(detailDir, detail.ID+".json")
		if err := writeJSON(path, detail); err != nil {
			return 0, err
		}
	}

	metrics.ObserveExport(start, full.Total)
	w.logger.Info("export.snapshot_written",
		zap.String("dir", w.dir),
		zap.Int64("records", full.Total),
		zap.Duration("duration", time.Since(start)))

	return full.Total, nil
}

func (w *Writer) collectRecords(ctx context.Context) ([]model.CoinRecord, error) {
	var all []model.CoinRecord
	offset := 0
	for {
		recs, err := w.serializer.store.ListCoinsPage(ctx, w.serializer.maxLimit, offset)
		if err != nil {
			return nil, fmt.Errorf("export scan: %w", err)
		}
		all = append(all, recs...)
		if len(recs) < w.serializer.maxLimit {
			return all, nil
		}
		offset += len(recs)
	}
}

// writeJSON writes v to path atomically: temp file in the same directory,
// then rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

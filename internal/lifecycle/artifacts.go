package lifecycle

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// PurgeArtifact removes an artifact that a scheduled external process
// refreshes independently, so publishing a build never clobbers fresher
// data. The delete is unconditional and idempotent: a missing file is
// success, not failure. Reports whether a file was removed.
func PurgeArtifact(path string, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	err := os.Remove(path)
	if os.IsNotExist(err) {
		logger.Info("lifecycle.purge_noop", zap.String("artifact", path))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("purge artifact %s: %w", path, err)
	}

	logger.Info("lifecycle.artifact_purged", zap.String("artifact", path))
	return true, nil
}

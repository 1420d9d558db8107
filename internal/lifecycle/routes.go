package lifecycle

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// State of the dynamic-route sources relative to the static build tree.
type State string

const (
	Present   State = "present"
	Withdrawn State = "withdrawn"
)

// RouteToggle moves dynamic route sources out of the site tree before a
// static build (those routes need a live backend and would break the build)
// and restores them afterward.
type RouteToggle struct {
	routesDir string
	backupDir string
	logger    *zap.Logger
}

func NewRouteToggle(routesDir, backupDir string, logger *zap.Logger) *RouteToggle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteToggle{routesDir: routesDir, backupDir: backupDir, logger: logger}
}

// State reports whether the route sources are currently in the build tree.
func (t *RouteToggle) State() State {
	if _, err := os.Stat(t.routesDir); err == nil {
		return Present
	}
	return Withdrawn
}

// Withdraw moves the route sources into the backup location. A stale backup
// from an interrupted earlier run is moved aside first, never overwritten.
// Withdrawing when nothing is present is a no-op and reports false.
func (t *RouteToggle) Withdraw() (bool, error) {
	if _, err := os.Stat(t.routesDir); os.IsNotExist(err) {
		t.logger.Info("lifecycle.withdraw_noop", zap.String("routes", t.routesDir))
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("stat routes dir: %w", err)
	}

	if _, err := os.Stat(t.backupDir); err == nil {
		stale := fmt.Sprintf("%s.stale-%s", t.backupDir, time.Now().UTC().Format("20060102T150405"))
		if err := os.Rename(t.backupDir, stale); err != nil {
			return false, fmt.Errorf("move stale backup aside: %w", err)
		}
		t.logger.Warn("lifecycle.stale_backup_moved",
			zap.String("backup", t.backupDir),
			zap.String("moved_to", stale))
	}

	if err := os.Rename(t.routesDir, t.backupDir); err != nil {
		return false, fmt.Errorf("withdraw routes: %w", err)
	}
	t.logger.Info("lifecycle.routes_withdrawn",
		zap.String("routes", t.routesDir),
		zap.String("backup", t.backupDir))
	return true, nil
}

// Restore moves withdrawn route sources back into the build tree. Calling
// it when nothing was withdrawn is a no-op and reports false. Restoring
// over an existing routes directory is refused rather than clobbering it.
func (t *RouteToggle) Restore() (bool, error) {
	if _, err := os.Stat(t.backupDir); os.IsNotExist(err) {
		t.logger.Info("lifecycle.restore_noop", zap.String("backup", t.backupDir))
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("stat backup dir: %w", err)
	}

	if _, err := os.Stat(t.routesDir); err == nil {
		return false, fmt.Errorf("restore routes: %s already exists", t.routesDir)
	}

	if err := os.Rename(t.backupDir, t.routesDir); err != nil {
		return false, fmt.Errorf("restore routes: %w", err)
	}
	t.logger.Info("lifecycle.routes_restored", zap.String("routes", t.routesDir))
	return true, nil
}

package lifecycle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRouteSource(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestRouteToggle_WithdrawAndRestore(t *testing.T) {
	base := t.TempDir()
	routes := filepath.Join(base, "pages", "api")
	backup := routes + ".withdrawn"
	writeRouteSource(t, routes, "coins.ts", "export default handler")

	toggle := NewRouteToggle(routes, backup, nil)
	assert.Equal(t, Present, toggle.State())

	moved, err := toggle.Withdraw()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, Withdrawn, toggle.State())
	assert.NoDirExists(t, routes)
	assert.FileExists(t, filepath.Join(backup, "coins.ts"))

	moved, err = toggle.Restore()
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, Present, toggle.State())
	assert.FileExists(t, filepath.Join(routes, "coins.ts"))
	assert.NoDirExists(t, backup)
}

func TestRouteToggle_RestoreWithoutWithdrawIsNoOp(t *testing.T) {
	base := t.TempDir()
	routes := filepath.Join(base, "pages", "api")
	toggle := NewRouteToggle(routes, routes+".withdrawn", nil)

	moved, err := toggle.Restore()
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestRouteToggle_DoubleWithdrawKeepsData(t *testing.T) {
	base := t.TempDir()
	routes := filepath.Join(base, "api")
	backup := routes + ".withdrawn"
	writeRouteSource(t, routes, "coins.ts", "v1")

	toggle := NewRouteToggle(routes, backup, nil)

	moved, err := toggle.Withdraw()
	require.NoError(t, err)
	require.True(t, moved)

	// Second withdraw with nothing present: no-op, backup untouched.
	moved, err = toggle.Withdraw()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.FileExists(t, filepath.Join(backup, "coins.ts"))
}

func TestRouteToggle_StaleBackupMovedAside(t *testing.T) {
	base := t.TempDir()
	routes := filepath.Join(base, "api")
	backup := routes + ".withdrawn"

	// A stale backup from an interrupted run, plus a recreated routes dir.
	writeRouteSource(t, backup, "coins.ts", "stale")
	writeRouteSource(t, routes, "coins.ts", "fresh")

	toggle := NewRouteToggle(routes, backup, nil)
	moved, err := toggle.Withdraw()
	require.NoError(t, err)
	assert.True(t, moved)

	// Fresh content is in the backup; stale content was moved aside, not lost.
	data, err := os.ReadFile(filepath.Join(backup, "coins.ts"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	var staleFound bool
	for _, e := range entries {
		if e.Name() != "api" && e.Name() != "api.withdrawn" {
			staleFound = true
		}
	}
	assert.True(t, staleFound, "stale backup should be moved aside, not deleted")
}

func TestRouteToggle_RestoreRefusesToClobber(t *testing.T) {
	base := t.TempDir()
	routes := filepath.Join(base, "api")
	backup := routes + ".withdrawn"
	writeRouteSource(t, routes, "coins.ts", "rebuilt")
	writeRouteSource(t, backup, "coins.ts", "withdrawn")

	toggle := NewRouteToggle(routes, backup, nil)
	_, err := toggle.Restore()
	require.Error(t, err)

	// Neither side was touched.
	data, err := os.ReadFile(filepath.Join(routes, "coins.ts"))
	require.NoError(t, err)
	assert.Equal(t, "rebuilt", string(data))
}

func TestPurgeArtifact(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "metal-prices.json")
	require.NoError(t, os.WriteFile(artifact, []byte(`{"gold": 1}`), 0o644))

	removed, err := PurgeArtifact(artifact, nil)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, artifact)

	// Absence is success, not failure.
	removed, err = PurgeArtifact(artifact, nil)
	require.NoError(t, err)
	assert.False(t, removed)
}

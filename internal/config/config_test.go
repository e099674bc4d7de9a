package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
scan_paths:
  - ~/custom
thresholds:
  large_file_min_gb: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, []string{"~/custom"}, cfg.ScanPaths)
	assert.Equal(t, 5.0, cfg.Thresholds.LargeFileMinGB)

	// Everything else in thresholds keeps its default.
	want := def.Thresholds
	want.LargeFileMinGB = 5
	assert.Equal(t, want, cfg.Thresholds)
	assert.Equal(t, 30, cfg.Thresholds.StaleDays)

	assert.Equal(t, def.ExcludePaths, cfg.ExcludePaths)
	assert.Equal(t, def.Phases, cfg.Phases)
}

func TestLoad_PhasesMergeKeyByKey(t *testing.T) {
	path := writeConfig(t, `
phases:
  logs: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Phases[PhaseLogs])
	assert.True(t, cfg.Phases[PhaseLargeFiles])
	assert.NotContains(t, cfg.EnabledPhases(), PhaseLogs)
	assert.Len(t, cfg.EnabledPhases(), len(PhaseOrder)-1)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Thresholds.LargeFileMinGB)
}

func TestLoad_InvalidYAMLFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "thresholds: [oops\n"))
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefault_IsFreshCopy(t *testing.T) {
	a := Default()
	a.Phases[PhaseLogs] = false
	a.ScanPaths[0] = "/elsewhere"

	b := Default()
	assert.True(t, b.Phases[PhaseLogs])
	assert.Equal(t, "~/", b.ScanPaths[0])
}

func TestEnabledPhases_FollowsFixedOrder(t *testing.T) {
	cfg := Default()
	cfg.Phases = map[string]bool{PhaseLogs: true, PhaseLargeFiles: true, "bogus": true}
	assert.Equal(t, []string{PhaseLargeFiles, PhaseLogs}, cfg.EnabledPhases())
	assert.Equal(t, []string{"bogus"}, cfg.UnknownPhases())
}

func TestScanRootsAndExclusions(t *testing.T) {
	home := "/home/u"
	cfg := Default()
	cfg.ScanPaths = []string{"~/", "/data"}
	cfg.ExcludePaths = []string{"~/.Trash"}

	assert.Equal(t, []string{"/home/u", "/data"}, cfg.ScanRoots(home))
	assert.Equal(t, []string{"/home/u/.Trash"}, cfg.Exclusions(home))
}

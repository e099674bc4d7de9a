package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/orchestrator"
	"github.com/lakshaymaurya-felt/dcc/internal/phasecache"
	"github.com/lakshaymaurya-felt/dcc/internal/report"
)

func TestPhaseList(t *testing.T) {
	assert.Nil(t, phaseList(nil))
	assert.Equal(t, []string{"logs", "caches", "git_repos"},
		phaseList([]string{"logs, caches", "", "git_repos,"}))
}

func TestNormalizeTarget(t *testing.T) {
	home := "/home/u"
	tests := []struct {
		in, want string
	}{
		{"ollama:llama3:8b", "ollama:llama3:8b"},
		{"huggingface:org/name", "huggingface:org/name"},
		{"~/proj/node_modules/", "~/proj/node_modules"},
		{"/home/u/Downloads/a.iso", "~/Downloads/a.iso"},
		{"/Applications/Xcode.app", "/Applications/Xcode.app"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTarget(tt.in, home), tt.in)
	}
}

func TestPrintPhases(t *testing.T) {
	log, _ := test.NewNullLogger()
	cache := phasecache.New(t.TempDir(), log)
	_, err := cache.Save(config.PhaseLogs, []finding.Finding{}, time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Phases[config.PhaseCaches] = false

	var buf bytes.Buffer
	printPhases(&buf, cfg, cache)
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, len(config.PhaseOrder))
	assert.Contains(t, string(lines[0]), config.PhaseLargeFiles)
	assert.Contains(t, string(lines[0]), "not cached")
	assert.Contains(t, string(lines[7]), "disabled")
	assert.Contains(t, string(lines[8]), "0 findings, cached")
}

func TestLoadConfig_InvalidFallsBack(t *testing.T) {
	dir := t.TempDir()
	configPath = filepath.Join(dir, "broken.yaml")
	t.Cleanup(func() { configPath = "" })
	require.NoError(t, os.WriteFile(configPath, []byte("thresholds: [unclosed\n"), 0o644))

	log, hook := test.NewNullLogger()
	cfg := loadConfig(dir, log)
	assert.Equal(t, config.Default().Thresholds, cfg.Thresholds)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("thresholds:\n  stale_days: 7\n"), 0o644))

	log, hook := test.NewNullLogger()
	cfg := loadConfig(dir, log)
	assert.Equal(t, 7, cfg.Thresholds.StaleDays)
	assert.Equal(t, config.Default().Thresholds.AppMinMB, cfg.Thresholds.AppMinMB)
	assert.Empty(t, hook.Entries)
}

func useDccDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dccDir = dir
	t.Cleanup(func() { dccDir = "" })
	return dir
}

func TestSnoozeList_FormatsStoredExpiry(t *testing.T) {
	dir := useDccDir(t)
	store := `{"items": [
  {"target": "~/old/node_modules", "expires_at": "2099-01-02T12:00:00Z"},
  {"target": "ollama:llama3:8b", "expires_at": "2099-03-04T05:06:07"},
  {"target": "~/expired", "expires_at": "2001-01-01T00:00:00Z"}
]}`
	require.NoError(t, os.WriteFile(orchestrator.SnoozePath(dir), []byte(store), 0o644))

	var out bytes.Buffer
	snoozeListCmd.SetOut(&out)
	require.NoError(t, snoozeListCmd.RunE(snoozeListCmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "~/old/node_modules")
	assert.Contains(t, lines[0], "until "+time.Date(2099, 1, 2, 12, 0, 0, 0, time.UTC).Local().Format(time.DateOnly))
	assert.Contains(t, lines[1], "ollama:llama3:8b")
	assert.Contains(t, lines[1], "until 2099-03-04")
}

func TestSnoozeAddThenList(t *testing.T) {
	useDccDir(t)

	var out bytes.Buffer
	snoozeAddCmd.SetOut(&out)
	require.NoError(t, snoozeAddCmd.RunE(snoozeAddCmd, []string{"~/proj/node_modules/"}))
	assert.Contains(t, out.String(), "~/proj/node_modules snoozed until")

	out.Reset()
	snoozeListCmd.SetOut(&out)
	require.NoError(t, snoozeListCmd.RunE(snoozeListCmd, nil))
	assert.Contains(t, out.String(), "~/proj/node_modules")
	assert.NotContains(t, out.String(), "Nothing snoozed.")
}

func TestSnoozeList_Empty(t *testing.T) {
	useDccDir(t)

	var out bytes.Buffer
	snoozeListCmd.SetOut(&out)
	require.NoError(t, snoozeListCmd.RunE(snoozeListCmd, nil))
	assert.Contains(t, out.String(), "Nothing snoozed.")
}

func TestRootAcceptsScanFlags(t *testing.T) {
	t.Cleanup(func() {
		scanForce, scanMerge, scanPhases, scanTop = false, false, nil, report.DefaultTop
	})
	for _, name := range []string{"phase", "force", "merge", "top"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
		assert.NotNil(t, scanCmd.Flags().Lookup(name), name)
	}

	require.NoError(t, rootCmd.ParseFlags([]string{"--force", "-m", "-p", "logs,caches", "--top", "3"}))
	assert.True(t, scanForce)
	assert.True(t, scanMerge)
	assert.Equal(t, 3, scanTop)
	assert.Equal(t, []string{"logs", "caches"}, phaseList(scanPhases))
}

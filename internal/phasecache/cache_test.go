package phasecache

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/dcc/internal/finding"
)

func newCache(t *testing.T) (*Cache, *test.Hook) {
	log, hook := test.NewNullLogger()
	return New(t.TempDir(), log), hook
}

func TestSaveLoad(t *testing.T) {
	c, _ := newCache(t)
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	f := finding.Finding{
		Target:         "~/a/node_modules",
		Category:       finding.CategoryNode,
		Options:        finding.Options{finding.Delete{ReclaimBytes: 5}, finding.Compress{ReclaimBytes: 4}},
		Recommendation: finding.ActionDelete,
		Reason:         "npm install",
	}.WithSize(5)

	saved, err := c.Save("build_artifacts", []finding.Finding{f}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Count)

	got, ok := c.Load("build_artifacts")
	require.True(t, ok)
	assert.Equal(t, "build_artifacts", got.Phase)
	assert.True(t, got.Generated.Equal(now))
	assert.Equal(t, 1, got.Count)
	require.Len(t, got.Findings, 1)
	assert.Equal(t, f.Target, got.Findings[0].Target)
	assert.Equal(t, f.Options, got.Findings[0].Options)
}

func TestLoad_Missing(t *testing.T) {
	c, hook := newCache(t)
	_, ok := c.Load("logs")
	assert.False(t, ok)
	assert.Empty(t, hook.AllEntries())
}

func TestLoad_CorruptIsAbsent(t *testing.T) {
	c, hook := newCache(t)
	require.NoError(t, os.WriteFile(c.Path("logs"), []byte(`{"phase": "logs", "findings": [`), 0o644))

	_, ok := c.Load("logs")
	assert.False(t, ok)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSave_EmptyIsCachedAsEmpty(t *testing.T) {
	c, _ := newCache(t)
	_, err := c.Save("logs", nil, time.Now())
	require.NoError(t, err)

	got, ok := c.Load("logs")
	require.True(t, ok)
	assert.Equal(t, 0, got.Count)
	assert.NotNil(t, got.Findings)

	raw, err := os.ReadFile(c.Path("logs"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"findings": []`)
}

func TestClear(t *testing.T) {
	c, _ := newCache(t)
	_, err := c.Save("logs", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, c.Clear("logs"))
	require.NoError(t, c.Clear("logs"))
	_, ok := c.Load("logs")
	assert.False(t, ok)
}

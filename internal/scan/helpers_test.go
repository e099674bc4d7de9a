package scan

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/snooze"
)

// fakeProbe answers introspection questions from fixed tables.
type fakeProbe struct {
	loose    map[string]int       // repo dir -> loose objects
	lastUsed map[string]time.Time // app path -> last used
	ids      map[string]string    // app path -> bundle id
}

func (f fakeProbe) LooseObjects(_ context.Context, repoDir string) int {
	return f.loose[repoDir]
}

func (f fakeProbe) LastUsed(_ context.Context, app string) (time.Time, bool) {
	t, ok := f.lastUsed[app]
	return t, ok
}

func (f fakeProbe) BundleID(_ context.Context, plist string) (string, bool) {
	id, ok := f.ids[filepath.Dir(filepath.Dir(plist))]
	return id, ok
}

// newTestEnv returns an environment rooted at a fresh temporary home with
// every size floor lowered to 50 KB, so fixtures stay small.
func newTestEnv(t *testing.T) *Env {
	t.Helper()
	log, _ := test.NewNullLogger()
	cfg := config.Default()
	th := &cfg.Thresholds
	th.LargeFileMinGB = 0.00005
	th.ArtifactMinMB = 0.05
	th.GitMinMB = 0.05
	th.AppMinMB = 0.05
	th.LeftoverMinMB = 0.05
	th.CacheMinMB = 0.05
	th.ModelMinMB = 0.05
	th.LogFileMinMB = 0.05

	return &Env{
		Config:  cfg,
		Home:    t.TempDir(),
		Now:     time.Now(),
		Probe:   fakeProbe{},
		Log:     log,
		Snoozed: snooze.Empty(time.Now()),
	}
}

// big is comfortably above the lowered floors.
const big = 96 * 1024

// small is below them.
const small = 1024

// writeFile creates path (relative to home) filled with incompressible data.
func writeFile(t *testing.T, home, rel string, size int) string {
	t.Helper()
	p := filepath.Join(home, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	buf := make([]byte, size)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, buf, 0o644))
	return p
}

func mkdir(t *testing.T, home, rel string) string {
	t.Helper()
	p := filepath.Join(home, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(p, 0o755))
	return p
}

func runPhase(t *testing.T, env *Env, name string) []finding.Finding {
	t.Helper()
	p, ok := Lookup(name)
	require.True(t, ok, name)
	out, err := p.Run(context.Background(), env)
	require.NoError(t, err)
	return out
}

func targets(fs []finding.Finding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Target)
	}
	return out
}

// inHome keeps only findings whose target is inside the home directory, so
// tests are not affected by what is installed on the machine running them.
func inHome(fs []finding.Finding) []finding.Finding {
	var out []finding.Finding
	for _, f := range fs {
		if strings.HasPrefix(f.Target, "~/") {
			out = append(out, f)
		}
	}
	return out
}

func byTarget(t *testing.T, fs []finding.Finding, target string) finding.Finding {
	t.Helper()
	for _, f := range fs {
		if f.Target == target {
			return f
		}
	}
	require.Failf(t, "missing finding", "%s not in %v", target, targets(fs))
	return finding.Finding{}
}

// Package scan implements the discovery phases. Each phase walks a part of
// the filesystem (or an application's own store), measures what it finds,
// and turns every candidate above its size floor into a finding with at
// least one action option.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/diskusage"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
	"github.com/lakshaymaurya-felt/dcc/internal/probe"
	"github.com/lakshaymaurya-felt/dcc/internal/snooze"
	"github.com/lakshaymaurya-felt/dcc/internal/staleness"
)

// Introspector answers questions that need external tools.
type Introspector interface {
	LooseObjects(ctx context.Context, repoDir string) int
	LastUsed(ctx context.Context, appPath string) (time.Time, bool)
	BundleID(ctx context.Context, plistPath string) (string, bool)
}

// Env is the read-only environment shared by the phases of one scan.
type Env struct {
	Config  config.Config
	Home    string
	Now     time.Time
	Caps    probe.Capabilities
	Usage   *diskusage.Accountant
	Snoozed *snooze.Registry
	Probe   Introspector
	Log     logrus.FieldLogger

	// AppDirs overrides the application folders; nil means
	// config.AppDirs.
	AppDirs []string

	// Visited counts filesystem entries seen by the walks. It may be read
	// concurrently, e.g. by a progress display.
	Visited atomic.Int64

	stale      *staleness.Evaluator
	exclusions []string
	prepared   bool
}

// prepare fills in defaults for anything the caller left unset.
func (e *Env) prepare() {
	if e.prepared {
		return
	}
	e.prepared = true

	if e.Home == "" {
		e.Home, _ = os.UserHomeDir()
	}
	if e.Now.IsZero() {
		e.Now = time.Now()
	}
	if e.Log == nil {
		e.Log = logrus.StandardLogger()
	}
	if e.Usage == nil {
		e.Usage = diskusage.New(diskusage.WithLogger(e.Log))
	}
	if e.Probe == nil {
		e.Probe = probe.New(e.Caps, nil)
	}
	if e.Config.Phases == nil {
		e.Config = config.Default()
	}
	if e.AppDirs == nil {
		e.AppDirs = config.AppDirs(e.Home)
	}
	e.stale = staleness.New(func() time.Time { return e.Now }, e.Probe)
	for _, x := range e.Config.Exclusions(e.Home) {
		e.exclusions = append(e.exclusions, filepath.Clean(x))
	}
}

// ─── Path Gates ──────────────────────────────────────────────────────────────

// excluded reports whether p equals or lies beneath a configured exclusion.
func (e *Env) excluded(p string) bool {
	for _, x := range e.exclusions {
		if under(p, x) {
			return true
		}
	}
	return false
}

// under is a prefix test on whole path components. Both paths must be clean.
func under(p, root string) bool {
	if p == root {
		return true
	}
	if strings.HasSuffix(root, string(filepath.Separator)) {
		return strings.HasPrefix(p, root)
	}
	return strings.HasPrefix(p, root+string(filepath.Separator))
}

// target returns the canonical target for path, or false when the target
// is snoozed.
func (e *Env) target(path string) (pathid.Target, bool) {
	t := pathid.FromPath(path, e.Home)
	return t, e.admit(t)
}

// admit reports whether findings for t may be produced.
func (e *Env) admit(t pathid.Target) bool {
	if e.Snoozed.IsSnoozed(t.String()) {
		e.Log.WithField("target", t.String()).Debug("snoozed")
		return false
	}
	return true
}

// ─── Finding Construction ────────────────────────────────────────────────────

// newFinding fills the fields every phase sets the same way. Timestamps are
// read from timesFrom, usually the target itself.
func (e *Env) newFinding(t pathid.Target, timesFrom string, cat finding.Category, size int64, files, days int) finding.Finding {
	f := finding.Finding{
		Target:        t.String(),
		Category:      cat,
		FileCount:     files,
		StalenessDays: days,
	}
	f.LastModified, f.LastAccessed = e.stale.Times(timesFrom)
	return f.WithSize(size)
}

// recommend returns id when stale is true and skip otherwise.
func recommend(stale bool, id finding.ActionID) finding.ActionID {
	if stale {
		return id
	}
	return finding.ActionSkip
}

// percent returns the given share of n, rounded down.
func percent(n int64, pct int64) int64 {
	return n * pct / 100
}

// isDir reports whether p is an existing directory (symlinks not followed).
func isDir(p string) bool {
	info, err := os.Lstat(p)
	return err == nil && info.IsDir()
}

// subdirs lists the directories directly inside dir, skipping symlinks.
func (e *Env) subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			e.Log.WithError(err).Debugf("cannot list %s", dir)
		}
		return nil
	}
	var out []string
	for _, d := range entries {
		if d.IsDir() {
			out = append(out, filepath.Join(dir, d.Name()))
		}
	}
	return out
}

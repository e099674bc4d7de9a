// Package diskusage measures how much disk space files and directory trees
// really occupy. Sizes are taken from allocated blocks rather than logical
// length, so sparse files and cloud placeholders are not over-counted.
package diskusage

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

// Placeholder detection: a file that claims more than a megabyte but has
// less than one percent of it allocated locally.
const (
	placeholderMinApparent = 1_000_000
	placeholderMaxRatio    = 0.01
)

// maxWarnings caps how many per-entry warnings an Accountant keeps.
const maxWarnings = 500

// Info is the metadata of a single filesystem entry.
type Info struct {
	Actual     int64
	Apparent   int64
	ModTime    time.Time
	AccessTime time.Time
	IsDir      bool
	IsRegular  bool
}

// Placeholder reports whether the entry is a cloud-only placeholder.
func (i Info) Placeholder() bool {
	return IsPlaceholder(i.Actual, i.Apparent)
}

// IsPlaceholder reports whether a file with the given actual and apparent
// sizes is a cloud-only placeholder (iCloud, OneDrive, Dropbox).
func IsPlaceholder(actual, apparent int64) bool {
	return apparent > placeholderMinApparent && float64(actual) < float64(apparent)*placeholderMaxRatio
}

// Usage is the accumulated disk usage of a file or tree.
type Usage struct {
	Actual       int64
	Apparent     int64
	Files        int
	Placeholders int
}

// Accountant computes disk usage. It prefers the bulk du/fd strategy when
// one is configured and falls back to an exhaustive stat walk.
type Accountant struct {
	fast     *FastPath
	log      logrus.FieldLogger
	warnings []string
}

// Option configures an Accountant.
type Option func(*Accountant)

// WithFastPath enables bulk accounting through external tools.
func WithFastPath(fp *FastPath) Option {
	return func(a *Accountant) { a.fast = fp }
}

// WithLogger routes per-entry warnings to log at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Accountant) { a.log = log }
}

// New creates an Accountant.
func New(opts ...Option) *Accountant {
	a := &Accountant{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Warnings returns the per-entry failures recorded so far.
func (a *Accountant) Warnings() []string {
	return append([]string(nil), a.warnings...)
}

func (a *Accountant) addWarning(msg string) {
	a.log.Debug(msg)
	if len(a.warnings) < maxWarnings {
		a.warnings = append(a.warnings, msg)
	}
}

// File returns the usage of a single file.
func (a *Accountant) File(path string) (Usage, error) {
	info, err := Stat(path)
	if err != nil {
		return Usage{}, err
	}
	u := Usage{Actual: info.Actual, Apparent: info.Apparent, Files: 1}
	if info.Placeholder() {
		u.Placeholders = 1
	}
	return u, nil
}

// Dir returns the usage of every regular file beneath path. Cloud
// placeholders are excluded from the totals and counted separately.
func (a *Accountant) Dir(ctx context.Context, path string) Usage {
	if a.fast != nil {
		u, err := a.fast.Dir(ctx, path)
		if err == nil {
			return u
		}
		a.addWarning("fast accounting failed for " + path + ": " + err.Error())
	}
	return a.Walk(ctx, path, nil)
}

// DirExcluding is Dir with subtrees left out of the totals. The bulk
// strategy cannot exclude subtrees, so this always walks.
func (a *Accountant) DirExcluding(ctx context.Context, path string, skip []string) Usage {
	return a.Walk(ctx, path, skip)
}

// Walk performs the exhaustive traversal. Entries that cannot be read are
// skipped and recorded as warnings; symlinks are not followed. The walk
// stops early once ctx is done, returning what was counted so far.
func (a *Accountant) Walk(ctx context.Context, root string, skip []string) Usage {
	var u Usage
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if err != nil {
			a.addWarning("cannot read " + p + ": " + err.Error())
			return nil
		}
		if d.IsDir() {
			for _, s := range skip {
				if pathid.IsUnder(p, s) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, statErr := Stat(p)
		if statErr != nil {
			a.addWarning("cannot stat " + p + ": " + statErr.Error())
			return nil
		}
		if info.Placeholder() {
			u.Placeholders++
			return nil
		}
		u.Actual += info.Actual
		u.Apparent += info.Apparent
		u.Files++
		return nil
	})
	return u
}

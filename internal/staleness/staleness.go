// Package staleness estimates how long a path has gone unused.
package staleness

import (
	"context"
	"time"

	"github.com/lakshaymaurya-felt/dcc/internal/diskusage"
)

const day = 24 * time.Hour

// AppUsage reports the recorded "last used" time of an application bundle.
type AppUsage interface {
	LastUsed(ctx context.Context, appPath string) (time.Time, bool)
}

// Evaluator computes staleness relative to a fixed clock.
type Evaluator struct {
	Now  func() time.Time
	Apps AppUsage // optional
}

// New creates an Evaluator. A nil now uses time.Now.
func New(now func() time.Time, apps AppUsage) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{Now: now, Apps: apps}
}

// Since returns the whole days elapsed between t and now, never negative.
func Since(t, now time.Time) int {
	if t.IsZero() || !now.After(t) {
		return 0
	}
	return int(now.Sub(t) / day)
}

// Days returns the whole days since path was last accessed. A path that
// cannot be stat'ed is reported as 0 days.
func (e *Evaluator) Days(path string) int {
	info, err := diskusage.Stat(path)
	if err != nil {
		return 0
	}
	return Since(info.AccessTime, e.Now())
}

// Times returns the modification and access times of path, or nil when
// they cannot be read.
func (e *Evaluator) Times(path string) (modified, accessed *time.Time) {
	info, err := diskusage.Stat(path)
	if err != nil {
		return nil, nil
	}
	m, a := info.ModTime.UTC(), info.AccessTime.UTC()
	return &m, &a
}

// AppDays returns the days since an application was last used. The
// Spotlight last-used date is preferred; when it is missing or malformed
// the bundle's access time is used instead. lastUsed is nil in that case.
func (e *Evaluator) AppDays(ctx context.Context, appPath string) (days int, lastUsed *time.Time) {
	if e.Apps != nil {
		if t, ok := e.Apps.LastUsed(ctx, appPath); ok {
			t = t.UTC()
			return Since(t, e.Now()), &t
		}
	}
	return e.Days(appPath), nil
}

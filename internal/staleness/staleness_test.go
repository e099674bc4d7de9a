package staleness

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func touch(t *testing.T, path string, atime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, atime, atime))
}

func TestSince(t *testing.T) {
	assert.Equal(t, 0, Since(time.Time{}, now))
	assert.Equal(t, 0, Since(now.Add(time.Hour), now))
	assert.Equal(t, 0, Since(now.Add(-23*time.Hour), now))
	assert.Equal(t, 1, Since(now.Add(-25*time.Hour), now))
	assert.Equal(t, 45, Since(now.AddDate(0, 0, -45), now))
}

func TestDays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	touch(t, path, now.AddDate(0, 0, -40))

	e := New(fixedClock, nil)
	assert.Equal(t, 40, e.Days(path))
	assert.Equal(t, 0, e.Days(path+".missing"))
}

type fakeApps struct {
	t  time.Time
	ok bool
}

func (f fakeApps) LastUsed(context.Context, string) (time.Time, bool) { return f.t, f.ok }

func TestAppDays_PrefersLastUsed(t *testing.T) {
	app := filepath.Join(t.TempDir(), "Foo.app")
	touch(t, app, now.AddDate(0, 0, -3))

	e := New(fixedClock, fakeApps{t: now.AddDate(0, 0, -120), ok: true})
	days, used := e.AppDays(context.Background(), app)
	assert.Equal(t, 120, days)
	require.NotNil(t, used)
	assert.True(t, used.Equal(now.AddDate(0, 0, -120)))
}

func TestAppDays_FallsBackToAccessTime(t *testing.T) {
	app := filepath.Join(t.TempDir(), "Foo.app")
	touch(t, app, now.AddDate(0, 0, -7))

	for name, e := range map[string]*Evaluator{
		"no prober":   New(fixedClock, nil),
		"no metadata": New(fixedClock, fakeApps{}),
	} {
		t.Run(name, func(t *testing.T) {
			days, used := e.AppDays(context.Background(), app)
			assert.Equal(t, 7, days)
			assert.Nil(t, used)
		})
	}
}

package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner returns canned output keyed by the command line.
type fakeRunner struct {
	out   map[string]string
	err   error
	calls []string
}

func (f *fakeRunner) Output(_ context.Context, _ time.Duration, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, line)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.out[line]), nil
}

func TestParseCountObjects(t *testing.T) {
	out := []byte("count: 1234\nsize: 5678\nin-pack: 10\npacks: 1\nsize-pack: 42\n")
	assert.Equal(t, 1234, ParseCountObjects(out))
	assert.Equal(t, 0, ParseCountObjects([]byte("size: 10\n")))
	assert.Equal(t, 0, ParseCountObjects([]byte("count: many\n")))
	assert.Equal(t, 0, ParseCountObjects(nil))
}

func TestLooseObjects_FailureIsZero(t *testing.T) {
	p := New(Capabilities{Git: "git"}, &fakeRunner{err: errors.New("boom")})
	assert.Equal(t, 0, p.LooseObjects(context.Background(), "/repo"))

	p = New(Capabilities{}, &fakeRunner{})
	assert.Equal(t, 0, p.LooseObjects(context.Background(), "/repo"))
}

func TestLooseObjects_UsesGitCountObjects(t *testing.T) {
	r := &fakeRunner{out: map[string]string{
		"git -C /repo count-objects -v": "count: 6000\nsize: 1\n",
	}}
	p := New(Capabilities{Git: "git"}, r)
	assert.Equal(t, 6000, p.LooseObjects(context.Background(), "/repo"))
	assert.Equal(t, []string{"git -C /repo count-objects -v"}, r.calls)
}

func TestParseLastUsed(t *testing.T) {
	got, ok := ParseLastUsed([]byte("2025-06-01 14:22:00 +0000\n"))
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 1, 14, 22, 0, 0, time.UTC), got.UTC())

	got, ok = ParseLastUsed([]byte("2025-06-01 14:22:00"))
	require.True(t, ok)
	assert.Equal(t, 2025, got.Year())

	for _, bad := range []string{"", "(null)", "yesterday", "2025-13-45 99:99:99"} {
		_, ok := ParseLastUsed([]byte(bad))
		assert.False(t, ok, "input %q", bad)
	}
}

func TestBundleID_FallsBackToXMLPlist(t *testing.T) {
	plist := filepath.Join(t.TempDir(), "Info.plist")
	require.NoError(t, os.WriteFile(plist, []byte(`<?xml version="1.0"?>
<plist version="1.0"><dict>
  <key>CFBundleName</key><string>Thing</string>
  <key>CFBundleIdentifier</key>
  <string>com.example.Thing</string>
</dict></plist>`), 0o644))

	p := New(Capabilities{Defaults: "defaults"}, &fakeRunner{err: errors.New("no such domain")})
	id, ok := p.BundleID(context.Background(), plist)
	require.True(t, ok)
	assert.Equal(t, "com.example.Thing", id)
}

func TestBundleID_PrefersDefaults(t *testing.T) {
	r := &fakeRunner{out: map[string]string{
		"defaults read /x/Info.plist CFBundleIdentifier": "com.example.Binary\n",
	}}
	id, ok := New(Capabilities{Defaults: "defaults"}, r).BundleID(context.Background(), "/x/Info.plist")
	require.True(t, ok)
	assert.Equal(t, "com.example.Binary", id)
}

func TestDetectWith(t *testing.T) {
	have := map[string]string{"du": "/usr/bin/du", "fdfind": "/usr/bin/fdfind", "git": "/usr/bin/git"}
	caps := DetectWith(func(name string) (string, error) {
		if p, ok := have[name]; ok {
			return p, nil
		}
		return "", errors.New("not found")
	})
	assert.Equal(t, "/usr/bin/fdfind", caps.Fd)
	assert.True(t, caps.FastAccounting())
	assert.Empty(t, caps.Mdls)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	sh, err := os.Stat("/bin/sh")
	if err != nil || sh.IsDir() {
		t.Skip("no /bin/sh")
	}
	_, err = ExecRunner{}.Output(context.Background(), 5*time.Second, "/bin/sh", "-c", "echo nope >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit code 3")
	assert.Contains(t, err.Error(), "nope")
}

func TestExecRunner_Timeout(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	_, err := ExecRunner{}.Output(context.Background(), 50*time.Millisecond, "/bin/sh", "-c", "sleep 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

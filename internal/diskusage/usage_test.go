package diskusage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/dcc/internal/probe"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(0, 10_000_000))
	assert.True(t, IsPlaceholder(4096, 10_000_000))
	assert.False(t, IsPlaceholder(200_000, 10_000_000))
	// Small files are never placeholders, even when unallocated.
	assert.False(t, IsPlaceholder(0, 900_000))
}

func TestWalk_CountsEveryRegularFile(t *testing.T) {
	root := t.TempDir()
	sizes := []int{1, 100, 5000, 70_000, 12}
	var logical int64
	for i, n := range sizes {
		writeFile(t, filepath.Join(root, "d", string(rune('a'+i)), "f.bin"), n)
		logical += int64(n)
	}

	u := New().Walk(context.Background(), root, nil)
	assert.Equal(t, len(sizes), u.Files)
	assert.GreaterOrEqual(t, u.Actual, int64(0))
	assert.Equal(t, logical, u.Apparent)
}

func TestWalk_SkipsSubtrees(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", "a"), 10)
	writeFile(t, filepath.Join(root, "skip", "b"), 10)
	writeFile(t, filepath.Join(root, "skip", "deep", "c"), 10)

	u := New().DirExcluding(context.Background(), root, []string{filepath.Join(root, "skip")})
	assert.Equal(t, 1, u.Files)
}

func TestWalk_StopsWhenCancelled(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(root, name, "f"), 10)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New()
	assert.Zero(t, a.Walk(ctx, root, nil).Files)
	assert.Zero(t, a.Dir(ctx, root).Files)
	assert.Zero(t, a.DirExcluding(ctx, root, nil).Files)
	assert.Equal(t, 3, a.Dir(context.Background(), root).Files)
}

func TestWalk_ExcludesPlaceholders(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("block counts unavailable")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real.bin"), 64*1024)

	// A sparse file with a large logical size behaves like a placeholder.
	f, err := os.Create(filepath.Join(root, "cloud.mov"))
	require.NoError(t, err)
	require.NoError(t, f.Truncate(50_000_000))
	require.NoError(t, f.Close())

	info, err := Stat(filepath.Join(root, "cloud.mov"))
	require.NoError(t, err)
	if !info.Placeholder() {
		t.Skip("filesystem does not support sparse files")
	}

	u := New().Walk(context.Background(), root, nil)
	assert.Equal(t, 1, u.Files)
	assert.Equal(t, 1, u.Placeholders)
	assert.Less(t, u.Actual, int64(50_000_000))
}

func TestWalk_MissingRootIsEmpty(t *testing.T) {
	a := New()
	u := a.Walk(context.Background(), filepath.Join(t.TempDir(), "gone"), nil)
	assert.Equal(t, Usage{}, u)
	assert.Len(t, a.Warnings(), 1)
}

func TestWalk_UnreadableDirectoryIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permissions are not enforced")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok", "a"), 10)
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "b"), 10)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	a := New()
	u := a.Walk(context.Background(), root, nil)
	assert.Equal(t, 1, u.Files)
	assert.NotEmpty(t, a.Warnings())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, 3000)
	u, err := New().File(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), u.Apparent)
	assert.Equal(t, 1, u.Files)

	_, err = New().File(path + ".missing")
	assert.Error(t, err)
}

// ─── Fast Path ───────────────────────────────────────────────────────────────

type scriptedRunner struct {
	du, fd string
	err    error
}

func (s scriptedRunner) Output(_ context.Context, _ time.Duration, name string, _ ...string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if name == "du" {
		return []byte(s.du), nil
	}
	return []byte(s.fd), nil
}

func TestFastPath_ParsesDuAndFd(t *testing.T) {
	fp := &FastPath{Du: "du", Fd: "fd", Runner: scriptedRunner{du: "2048\t/x\n", fd: "/x/a\n/x/b\n/x/c\n"}}
	u, err := fp.Dir(context.Background(), "/x")
	require.NoError(t, err)
	assert.Equal(t, int64(2048*1024), u.Actual)
	assert.Equal(t, 3, u.Files)
}

func TestDir_FallsBackWhenFastPathFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 10)
	writeFile(t, filepath.Join(root, "b"), 10)

	fp := &FastPath{Du: "du", Fd: "fd", Runner: scriptedRunner{err: errors.New("du: not permitted")}}
	a := New(WithFastPath(fp))
	u := a.Dir(context.Background(), root)
	assert.Equal(t, 2, u.Files)
	assert.NotEmpty(t, a.Warnings())
}

func TestNewFastPath_RequiresBothTools(t *testing.T) {
	assert.Nil(t, NewFastPath(probe.Capabilities{Du: "/usr/bin/du"}, nil))
	assert.NotNil(t, NewFastPath(probe.Capabilities{Du: "/usr/bin/du", Fd: "/usr/bin/fd"}, nil))
}

func TestParseDu(t *testing.T) {
	n, err := parseDu([]byte("17\t/tmp/x\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)

	_, err = parseDu([]byte(""))
	assert.Error(t, err)
	_, err = parseDu([]byte("du: cannot access"))
	assert.Error(t, err)
}

package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// walker enumerates a tree for one phase. It never follows symlinks, skips
// excluded subtrees and the directory names the phase does not descend
// into, and keeps going past unreadable entries.
type walker struct {
	env      *Env
	skipName map[string]bool
	skipDirs []string
}

// newWalker creates a walker that skips directories named in skipNames
// (case-insensitive) and the absolute directories in skipDirs.
func newWalker(env *Env, skipNames []string, skipDirs ...string) *walker {
	names := make(map[string]bool, len(skipNames))
	for _, n := range skipNames {
		names[strings.ToLower(n)] = true
	}
	dirs := make([]string, 0, len(skipDirs))
	for _, d := range skipDirs {
		dirs = append(dirs, filepath.Clean(d))
	}
	return &walker{env: env, skipName: names, skipDirs: dirs}
}

// visitFunc is called for every entry that is not skipped. Returning
// filepath.SkipDir from a directory prunes it.
type visitFunc func(path string, d fs.DirEntry) error

// walk visits root and everything below it. It stops early, returning the
// context error, when ctx is cancelled.
func (w *walker) walk(ctx context.Context, root string, visit visitFunc) error {
	root = filepath.Clean(root)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// The root itself missing is normal for optional locations.
			if p != root {
				w.env.Log.WithError(err).Debugf("skipping %s", p)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		w.env.Visited.Add(1)

		if w.skip(p, d) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		return visit(p, d)
	})
	return err
}

func (w *walker) skip(p string, d fs.DirEntry) bool {
	if w.env.excluded(p) {
		return true
	}
	if !d.IsDir() {
		return false
	}
	if w.skipName[strings.ToLower(d.Name())] {
		return true
	}
	for _, s := range w.skipDirs {
		if under(p, s) {
			return true
		}
	}
	return false
}

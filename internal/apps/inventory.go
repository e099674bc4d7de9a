// Package apps builds the inventory of installed application bundles used
// to recognise orphaned Application Support folders.
package apps

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// BundleIDReader reads CFBundleIdentifier from an Info.plist.
type BundleIDReader interface {
	BundleID(ctx context.Context, plistPath string) (string, bool)
}

// App is one installed application bundle.
type App struct {
	Path     string
	Name     string // bundle name without ".app"
	Folder   string // containing folder, "" when directly in an app dir
	BundleID string
}

// ─── Discovery ───────────────────────────────────────────────────────────────

// Discover finds every .app bundle beneath dirs, including bundles grouped
// into vendor subfolders. Bundles nested inside other bundles are ignored.
func Discover(ctx context.Context, dirs []string, ids BundleIDReader, log logrus.FieldLogger) []App {
	seen := make(map[string]bool)
	var apps []App

	for _, root := range dirs {
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				log.WithError(err).Debugf("skipping %s", p)
				return nil
			}
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			if !d.IsDir() || !strings.HasSuffix(d.Name(), ".app") {
				return nil
			}
			if !seen[p] {
				seen[p] = true
				apps = append(apps, describe(ctx, root, p, ids))
			}
			return filepath.SkipDir
		})
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].Path < apps[j].Path })
	return apps
}

func describe(ctx context.Context, root, path string, ids BundleIDReader) App {
	app := App{
		Path: path,
		Name: strings.TrimSuffix(filepath.Base(path), ".app"),
	}
	if parent := filepath.Dir(path); filepath.Clean(parent) != filepath.Clean(root) {
		app.Folder = filepath.Base(parent)
	}
	if ids != nil {
		if id, ok := ids.BundleID(ctx, filepath.Join(path, "Contents", "Info.plist")); ok {
			app.BundleID = id
		}
	}
	return app
}

// ─── Matching ────────────────────────────────────────────────────────────────

// Normalize lowercases s and drops spaces, hyphens, and underscores.
func Normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// Inventory is the set of normalized identities of installed applications.
type Inventory struct {
	identities []string
}

// NewInventory collects the identities of apps: each bundle id, every bundle
// id component longer than two characters, the bundle name and the vendor
// folder.
func NewInventory(apps []App) *Inventory {
	set := make(map[string]bool)
	add := func(s string) {
		if n := Normalize(s); n != "" {
			set[n] = true
		}
	}
	for _, a := range apps {
		add(a.Name)
		add(a.Folder)
		if a.BundleID == "" {
			continue
		}
		add(a.BundleID)
		for _, part := range strings.Split(a.BundleID, ".") {
			if len(part) > 2 {
				add(part)
			}
		}
	}

	inv := &Inventory{identities: make([]string, 0, len(set))}
	for id := range set {
		inv.identities = append(inv.identities, id)
	}
	sort.Strings(inv.identities)
	return inv
}

// Identities returns the normalized identities, sorted.
func (inv *Inventory) Identities() []string {
	return append([]string(nil), inv.identities...)
}

// Installed reports whether a support folder named name belongs to an
// installed application: its normalized name is contained in, or contains,
// some identity.
func (inv *Inventory) Installed(name string) bool {
	n := Normalize(name)
	if n == "" {
		return true
	}
	for _, id := range inv.identities {
		if strings.Contains(id, n) || strings.Contains(n, id) {
			return true
		}
	}
	return false
}

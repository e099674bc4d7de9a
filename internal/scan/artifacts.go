package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

// compressRatioArtifact is the share of an artifact directory a compress is
// expected to free.
const compressRatioArtifact = 80

type marker struct {
	path string
	rule int
}

// scanBuildArtifacts finds project marker files and reports the dependency
// and build directories next to them.
func scanBuildArtifacts(ctx context.Context, env *Env) ([]finding.Finding, error) {
	th := env.Config.Thresholds
	minBytes := core.MB(th.ArtifactMinMB)

	w := newWalker(env, markerSkipNames)
	var markers []marker
	for _, root := range env.Config.ScanRoots(env.Home) {
		err := w.walk(ctx, root, func(p string, d fs.DirEntry) error {
			if d.IsDir() {
				return nil
			}
			if i := matchArtifactRule(d.Name()); i >= 0 {
				markers = append(markers, marker{path: p, rule: i})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Rule order decides which marker describes a shared directory.
	sort.SliceStable(markers, func(i, j int) bool { return markers[i].rule < markers[j].rule })

	seen := make(map[string]bool)
	var out []finding.Finding
	for _, m := range markers {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		rule := artifactRules[m.rule]
		project := filepath.Dir(m.path)
		markerDays := env.stale.Days(m.path)

		for _, name := range rule.Dirs {
			dir := filepath.Join(project, name)
			if !isDir(dir) || env.excluded(dir) {
				continue
			}
			t, ok := env.target(dir)
			if !ok || seen[t.String()] {
				continue
			}
			seen[t.String()] = true

			u := env.Usage.Dir(ctx, dir)
			if u.Actual < minBytes {
				continue
			}

			f := env.newFinding(t, dir, rule.Category, u.Actual, u.Files, markerDays)
			f.Options = finding.Options{
				finding.Delete{ReclaimBytes: u.Actual},
				finding.Compress{ReclaimBytes: percent(u.Actual, compressRatioArtifact)},
			}
			f.Reason = rule.Restore
			f.Recommendation = recommend(markerDays > th.StaleDays, finding.ActionDelete)
			f.ParentProject = pathid.FromPath(project, env.Home).String()
			out = append(out, f)
		}
	}
	return out, nil
}

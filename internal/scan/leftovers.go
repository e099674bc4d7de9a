package scan

import (
	"context"
	"path/filepath"

	"github.com/lakshaymaurya-felt/dcc/internal/apps"
	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
)

// scanLibraryLeftovers reports Application Support folders that no
// installed application appears to own.
func scanLibraryLeftovers(ctx context.Context, env *Env) ([]finding.Finding, error) {
	th := env.Config.Thresholds
	minBytes := core.MB(th.LeftoverMinMB)

	installed := apps.Discover(ctx, env.AppDirs, env.Probe, env.Log)
	inv := apps.NewInventory(installed)
	env.Log.WithField("apps", len(installed)).Debug("installed application inventory built")

	var out []finding.Finding
	for _, dir := range env.subdirs(config.AppSupportDir(env.Home)) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if env.excluded(dir) {
			continue
		}
		t, ok := env.target(dir)
		if !ok {
			continue
		}
		name := filepath.Base(dir)
		if inv.Installed(name) {
			continue
		}
		u := env.Usage.Dir(ctx, dir)
		if u.Actual < minBytes {
			continue
		}

		f := env.newFinding(t, dir, finding.CategoryOrphan, u.Actual, u.Files, env.stale.Days(dir))
		f.Options = finding.Options{finding.Delete{ReclaimBytes: u.Actual}}
		f.Recommendation = finding.ActionDelete
		f.Reason = name + " not installed"
		f.AppInstalled = finding.Ptr(false)
		out = append(out, f)
	}
	return out, nil
}

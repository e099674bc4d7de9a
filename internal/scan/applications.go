package scan

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
)

// scanApplications reports large application bundles installed directly in
// the application folders.
func scanApplications(ctx context.Context, env *Env) ([]finding.Finding, error) {
	th := env.Config.Thresholds
	minBytes := core.MB(th.AppMinMB)
	var out []finding.Finding

	for _, appDir := range env.AppDirs {
		for _, app := range env.subdirs(appDir) {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			if !strings.HasSuffix(app, ".app") || env.excluded(app) {
				continue
			}
			t, ok := env.target(app)
			if !ok {
				continue
			}
			u := env.Usage.Dir(ctx, app)
			if u.Actual < minBytes {
				continue
			}

			days, lastUsed := env.stale.AppDays(ctx, app)
			appStore := fileExists(filepath.Join(app, "Contents", "_MASReceipt"))

			rec, reason := finding.ActionSkip, "Actively used"
			if days > th.StaleAppDays {
				rec, reason = finding.ActionDelete, "Re-download from vendor"
				if appStore {
					reason = "App Store reinstall"
				}
			}

			f := env.newFinding(t, app, finding.CategoryApp, u.Actual, u.Files, days)
			if lastUsed != nil {
				f.LastAccessed = lastUsed
			}
			f.Options = finding.Options{finding.Delete{ReclaimBytes: u.Actual}}
			f.Recommendation = rec
			f.Reason = reason
			f.AppStore = finding.Ptr(appStore)
			out = append(out, f)
		}
	}
	return out, nil
}

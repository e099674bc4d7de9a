package scan

import (
	"context"
	"io/fs"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
)

// scanLogs reports oversized log files.
func scanLogs(ctx context.Context, env *Env) ([]finding.Finding, error) {
	minBytes := core.MB(env.Config.Thresholds.LogFileMinMB)
	w := newWalker(env, nil, config.ModelStoreDirs(env.Home)...)
	var out []finding.Finding

	for _, dir := range config.LogDirs(env.Home) {
		err := w.walk(ctx, dir, func(p string, d fs.DirEntry) error {
			if !d.Type().IsRegular() || !isLogName(d.Name(), config.LogPatterns) {
				return nil
			}
			t, ok := env.target(p)
			if !ok {
				return nil
			}
			u, err := env.Usage.File(p)
			if err != nil || u.Placeholders > 0 || u.Actual < minBytes {
				return nil
			}
			f := env.newFinding(t, p, finding.CategoryLogs, u.Actual, 1, env.stale.Days(p))
			f.Options = finding.Options{finding.Delete{ReclaimBytes: u.Actual}}
			f.Recommendation = finding.ActionDelete
			f.Reason = "Log file, safe to delete"
			out = append(out, f)
			return nil
		})
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

package scan

import (
	"context"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/diskusage"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

const cacheReason = "Cache, auto-regenerates"

// scanCaches reports cache directories (always safe to delete) and the
// downloaded model checkpoints kept alongside them.
func scanCaches(ctx context.Context, env *Env) ([]finding.Finding, error) {
	th := env.Config.Thresholds
	cacheMin := core.MB(th.CacheMinMB)
	var out []finding.Finding

	add := func(t pathid.Target, dir string, u diskusage.Usage) {
		if u.Actual < cacheMin {
			return
		}
		f := env.newFinding(t, dir, finding.CategoryCache, u.Actual, u.Files, env.stale.Days(dir))
		f.Options = finding.Options{finding.Delete{ReclaimBytes: u.Actual}}
		f.Recommendation = finding.ActionDelete
		f.Reason = cacheReason
		out = append(out, f)
	}

	// ~/Library/Caches, one finding per application.
	for _, dir := range env.subdirs(config.UserCachesDir(env.Home)) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if env.excluded(dir) {
			continue
		}
		if t, ok := env.target(dir); ok {
			add(t, dir, env.Usage.Dir(ctx, dir))
		}
	}

	// Directories owned by other phases are left out of the totals of the
	// fixed locations that contain them.
	owned := config.ModelStoreDirs(env.Home)
	for _, loc := range config.ModelCacheLocations(env.Home) {
		owned = append(owned, loc.Path)
	}

	for _, loc := range config.CacheLocations(env.Home) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if !isDir(loc.Path) || env.excluded(loc.Path) {
			continue
		}
		t, ok := env.target(loc.Path)
		if !ok {
			continue
		}
		var skip []string
		for _, o := range owned {
			if pathid.IsUnder(o, loc.Path) {
				skip = append(skip, o)
			}
		}
		if len(skip) > 0 {
			add(t, loc.Path, env.Usage.DirExcluding(ctx, loc.Path, skip))
		} else {
			add(t, loc.Path, env.Usage.Dir(ctx, loc.Path))
		}
	}

	models, err := scanModelCaches(ctx, env)
	return append(out, models...), err
}

// scanModelCaches reports each model checkpoint directory in the model
// cache locations.
func scanModelCaches(ctx context.Context, env *Env) ([]finding.Finding, error) {
	th := env.Config.Thresholds
	minBytes := core.MB(th.ModelMinMB)
	var out []finding.Finding

	for _, loc := range config.ModelCacheLocations(env.Home) {
		for _, dir := range env.subdirs(loc.Path) {
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
			u := env.Usage.Dir(ctx, dir)
			if u.Actual < minBytes {
				continue
			}
			days := env.stale.Days(dir)
			f := env.newFinding(t, dir, finding.Category(loc.Category), u.Actual, u.Files, days)
			f.Options = finding.Options{finding.Delete{ReclaimBytes: u.Actual}}
			f.Recommendation = recommend(days > th.ModelStaleDays, finding.ActionDelete)
			f.Reason = loc.Description + ", re-downloaded on demand"
			out = append(out, f)
		}
	}
	return out, nil
}

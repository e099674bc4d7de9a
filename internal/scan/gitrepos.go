package scan

import (
	"context"
	"io/fs"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

// Share of the .git directory a gc is expected to free, by loose-object tier.
const (
	gcReclaimHigh = 40
	gcReclaimLow  = 20
)

var counts = message.NewPrinter(language.English)

// scanGitRepos reports .git directories above git_min_mb and recommends
// garbage collection where many loose objects have piled up.
func scanGitRepos(ctx context.Context, env *Env) ([]finding.Finding, error) {
	th := env.Config.Thresholds
	minBytes := core.MB(th.GitMinMB)

	w := newWalker(env, []string{"node_modules"}, config.ModelStoreDirs(env.Home)...)
	var out []finding.Finding

	for _, root := range env.Config.ScanRoots(env.Home) {
		err := w.walk(ctx, root, func(p string, d fs.DirEntry) error {
			if !d.IsDir() || d.Name() != ".git" {
				return nil
			}
			if f, ok := inspectRepo(ctx, env, p, minBytes); ok {
				out = append(out, f)
			}
			// Nothing below a .git directory is a repository of its own.
			return filepath.SkipDir
		})
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func inspectRepo(ctx context.Context, env *Env, gitDir string, minBytes int64) (finding.Finding, bool) {
	th := env.Config.Thresholds
	t, ok := env.target(gitDir)
	if !ok {
		return finding.Finding{}, false
	}
	u := env.Usage.Dir(ctx, gitDir)
	if u.Actual < minBytes {
		return finding.Finding{}, false
	}

	repo := filepath.Dir(gitDir)
	loose := 0
	if isDir(filepath.Join(gitDir, "objects")) {
		loose = env.Probe.LooseObjects(ctx, repo)
	}

	rec, reason, pct := finding.ActionSkip, "Git repository", int64(gcReclaimLow)
	switch {
	case loose >= th.GitLooseHigh:
		rec, pct = finding.ActionGitGC, gcReclaimHigh
		reason = counts.Sprintf("%d loose objects, gc strongly recommended", loose)
	case loose >= th.GitLooseModerate:
		rec = finding.ActionGitGC
		reason = counts.Sprintf("%d loose objects", loose)
	}
	reclaim := percent(u.Actual, pct)

	f := env.newFinding(t, gitDir, finding.CategoryGit, u.Actual, u.Files, env.stale.Days(gitDir))
	f.Options = finding.Options{finding.GitGC{ReclaimBytes: reclaim}}
	f.Recommendation = rec
	f.Reason = reason
	f.ParentProject = pathid.FromPath(repo, env.Home).String()
	f.LooseObjects = finding.Ptr(loose)
	f.GCPotentialBytes = finding.Ptr(reclaim)
	return f, true
}

package scan

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/dcc/internal/action"
	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

const hfModelPrefix = "models--"

// hfModelID turns a hub cache folder name into a model id:
// "models--org--name" becomes "org/name".
func hfModelID(dirName string) (string, bool) {
	rest, ok := strings.CutPrefix(dirName, hfModelPrefix)
	if !ok || rest == "" {
		return "", false
	}
	return strings.ReplaceAll(rest, "--", "/"), true
}

// scanHuggingFaceModels reports each model folder in the Hugging Face hub
// cache. Datasets and spaces are left alone.
func scanHuggingFaceModels(ctx context.Context, env *Env) ([]finding.Finding, error) {
	th := env.Config.Thresholds
	minBytes := core.MB(th.ModelMinMB)
	var out []finding.Finding

	for _, dir := range env.subdirs(config.HuggingFaceHubDir(env.Home)) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if env.excluded(dir) {
			continue
		}
		id, ok := hfModelID(filepath.Base(dir))
		if !ok {
			continue
		}
		t := pathid.Virtual(pathid.NamespaceHuggingFace, id)
		if !env.admit(t) {
			continue
		}

		u := env.Usage.Dir(ctx, dir)
		if u.Actual <= 0 || u.Actual < minBytes {
			continue
		}
		cmd, _, err := action.Command(t.String(), finding.ActionHFDelete, env.Home)
		if err != nil {
			continue
		}
		days := env.stale.Days(dir)

		f := env.newFinding(t, dir, finding.CategoryHuggingFace, u.Actual, u.Files, days)
		f.Options = finding.Options{finding.StoreRemove{Store: pathid.NamespaceHuggingFace, Command: cmd, ReclaimBytes: u.Actual}}
		f.Recommendation = recommend(days > th.ModelStaleDays, finding.ActionHFDelete)
		f.Reason = "Re-download from the Hugging Face hub"
		out = append(out, f)
	}
	return out, nil
}

package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/diskusage"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
)

// compressRatioLargeFile is the share of a large file's size a compress is
// expected to free.
const compressRatioLargeFile = 70

// scanLargeFiles reports individual files at or above large_file_min_gb.
func scanLargeFiles(ctx context.Context, env *Env) ([]finding.Finding, error) {
	th := env.Config.Thresholds
	minBytes := core.GB(th.LargeFileMinGB)

	w := newWalker(env, []string{".git", "node_modules"}, config.ModelStoreDirs(env.Home)...)
	var out []finding.Finding

	for _, root := range env.Config.ScanRoots(env.Home) {
		err := w.walk(ctx, root, func(p string, d fs.DirEntry) error {
			if !d.Type().IsRegular() {
				return nil
			}
			// Logical size first: it is already known from the directory
			// read and rules out almost every file.
			fi, err := d.Info()
			if err != nil || fi.Size() < minBytes {
				return nil
			}

			t, ok := env.target(p)
			if !ok {
				return nil
			}
			info, err := diskusage.Stat(p)
			if err != nil || info.Placeholder() || info.Actual < minBytes {
				return nil
			}

			days := env.stale.Days(p)
			cat, reason := classifyLargeFile(t.String())

			options := finding.Options{finding.Delete{ReclaimBytes: info.Actual}}
			if !compressedExts[strings.ToLower(filepath.Ext(p))] {
				options = append(options, finding.Compress{ReclaimBytes: percent(info.Actual, compressRatioLargeFile)})
			}

			f := env.newFinding(t, p, cat, info.Actual, 1, days)
			f.Options = options
			f.Reason = reason
			f.Recommendation = recommend(days > th.LargeFileStaleDays, finding.ActionDelete)
			out = append(out, f)
			return nil
		})
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

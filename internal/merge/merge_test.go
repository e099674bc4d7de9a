package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/dcc/internal/finding"
)

func mk(target string, size int64) finding.Finding {
	return finding.Finding{
		Target:         target,
		Category:       finding.CategoryFile,
		Options:        finding.Options{finding.Delete{ReclaimBytes: size}},
		Recommendation: finding.ActionDelete,
	}.WithSize(size)
}

func targets(fs []finding.Finding) []string {
	var out []string
	for _, f := range fs {
		out = append(out, f.Target)
	}
	return out
}

func TestFindings_IdenticalTargetsCollapse(t *testing.T) {
	got := Findings([]finding.Finding{mk("~/a/b", 10), mk("~/a/b", 30)})
	require.Len(t, got, 1)
	assert.Equal(t, int64(30), got[0].SizeBytes, "larger duplicate is seen first")
}

func TestFindings_ChildWinsOverParent(t *testing.T) {
	got := Findings([]finding.Finding{mk("~/.cache", 500), mk("~/.cache/pip", 100)})
	assert.Equal(t, []string{"~/.cache/pip"}, targets(got))
}

func TestFindings_SiblingPrefixIsNotAncestor(t *testing.T) {
	got := Findings([]finding.Finding{mk("~/proj", 500), mk("~/proj2/node_modules", 100)})
	assert.Equal(t, []string{"~/proj", "~/proj2/node_modules"}, targets(got))
}

func TestFindings_NormalizesBeforeComparing(t *testing.T) {
	got := Findings([]finding.Finding{mk("~/a/b/", 10), mk("~/a//b", 20), mk("~/a", 99)})
	assert.Equal(t, []string{"~/a/b"}, targets(got))
}

func TestFindings_VirtualTargetsNeverNest(t *testing.T) {
	got := Findings([]finding.Finding{
		mk("ollama:llama3:8b", 4000),
		mk("huggingface:org/model", 3000),
		mk("~/.cache", 2000),
		mk("ollama:llama3:8b", 4000),
	})
	assert.Equal(t, []string{"ollama:llama3:8b", "huggingface:org/model", "~/.cache"}, targets(got))
}

func TestFindings_TieBreakByTarget(t *testing.T) {
	got := Findings([]finding.Finding{mk("~/z", 5), mk("~/a", 5), mk("~/m", 5)})
	assert.Equal(t, []string{"~/a", "~/m", "~/z"}, targets(got))
}

func TestFindings_Empty(t *testing.T) {
	assert.Empty(t, Findings(nil))
	assert.NotNil(t, Findings(nil))
}

func TestReport_ThreePhases(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	results := []finding.PhaseResult{
		{Phase: "large_files", Findings: []finding.Finding{mk("~/Downloads/a.iso", 100)}},
		{Phase: "build_artifacts", Findings: []finding.Finding{mk("~/src/app/node_modules", 2000)}},
		{Phase: "caches", Findings: []finding.Finding{mk("~/Library/Caches/com.x", 10000)}},
	}

	r := Report(results, now, 3500*time.Millisecond)
	assert.Equal(t, []int64{10000, 2000, 100}, []int64{
		r.Findings[0].SizeBytes, r.Findings[1].SizeBytes, r.Findings[2].SizeBytes,
	})
	assert.Equal(t, int64(12100), r.TotalReclaimableBytes)
	assert.Equal(t, 3, r.ItemCount)
	assert.Equal(t, int64(3), r.ScanDurationSec)
	assert.Equal(t, now, r.Generated)
}

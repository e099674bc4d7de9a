// Package merge combines the findings of every phase into one report in
// which no target appears twice and no reported directory contains another
// reported target.
package merge

import (
	"sort"
	"time"

	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

type candidate struct {
	f finding.Finding
	t pathid.Target
}

// Findings deduplicates findings. The most specific target wins: candidates
// are taken deepest first, then largest first, and a candidate is dropped
// when its target was already taken or is an ancestor of a taken target.
// The survivors are returned by descending size, ties broken by target.
func Findings(all []finding.Finding) []finding.Finding {
	cands := make([]candidate, 0, len(all))
	for _, f := range all {
		t := pathid.Parse(f.Target)
		if t.IsZero() {
			continue
		}
		f.Target = t.String()
		cands = append(cands, candidate{f: f, t: t})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := cands[i].t.Depth(), cands[j].t.Depth()
		if di != dj {
			return di > dj
		}
		return cands[i].f.SizeBytes > cands[j].f.SizeBytes
	})

	seen := make(map[string]bool, len(cands))
	var kept []candidate
	out := make([]finding.Finding, 0, len(cands))
	for _, c := range cands {
		if seen[c.t.String()] || containsTaken(c.t, kept) {
			continue
		}
		seen[c.t.String()] = true
		kept = append(kept, c)
		out = append(out, c.f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SizeBytes != out[j].SizeBytes {
			return out[i].SizeBytes > out[j].SizeBytes
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// containsTaken reports whether t is an ancestor of any taken target.
func containsTaken(t pathid.Target, taken []candidate) bool {
	if t.IsVirtual() {
		return false
	}
	for _, k := range taken {
		if t.IsAncestorOf(k.t) {
			return true
		}
	}
	return false
}

// Report merges the phase results in order and totals the survivors.
func Report(results []finding.PhaseResult, now time.Time, elapsed time.Duration) finding.Report {
	var all []finding.Finding
	for _, r := range results {
		all = append(all, r.Findings...)
	}
	merged := Findings(all)

	var total int64
	for _, f := range merged {
		total += f.SizeBytes
	}
	return finding.Report{
		Generated:             now,
		ScanDurationSec:       int64(elapsed / time.Second),
		TotalReclaimableBytes: total,
		ItemCount:             len(merged),
		Findings:              merged,
	}
}

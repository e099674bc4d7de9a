package probe

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Prober answers the scanner's questions about repositories and
// applications by shelling out to the detected tools.
type Prober struct {
	Caps   Capabilities
	Runner Runner
}

// New creates a Prober. A nil runner uses ExecRunner.
func New(caps Capabilities, runner Runner) *Prober {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Prober{Caps: caps, Runner: runner}
}

// ─── Git ─────────────────────────────────────────────────────────────────────

// LooseObjects returns the number of loose objects in the repository at
// repoDir. Any failure (git missing, timeout, non-zero exit) yields 0.
func (p *Prober) LooseObjects(ctx context.Context, repoDir string) int {
	if p.Caps.Git == "" {
		return 0
	}
	out, err := p.Runner.Output(ctx, GitTimeout, p.Caps.Git, "-C", repoDir, "count-objects", "-v")
	if err != nil {
		return 0
	}
	return ParseCountObjects(out)
}

// ParseCountObjects extracts the "count:" line of `git count-objects -v`.
func ParseCountObjects(out []byte) int {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(key) != "count" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}

// ─── Spotlight ───────────────────────────────────────────────────────────────

// lastUsedLayout is the kMDItemLastUsedDate format, e.g.
// "2025-06-01 14:22:00 +0000".
const lastUsedLayout = "2006-01-02 15:04:05 -0700"

// LastUsed returns the Spotlight "last used" date of an application bundle.
// ok is false when Spotlight is unavailable or has no usable value.
func (p *Prober) LastUsed(ctx context.Context, appPath string) (time.Time, bool) {
	if p.Caps.Mdls == "" {
		return time.Time{}, false
	}
	out, err := p.Runner.Output(ctx, MetadataTimeout, p.Caps.Mdls, "-name", "kMDItemLastUsedDate", "-raw", appPath)
	if err != nil {
		return time.Time{}, false
	}
	return ParseLastUsed(out)
}

// ParseLastUsed parses mdls output. "(null)", empty output and malformed
// dates are reported as not ok.
func ParseLastUsed(out []byte) (time.Time, bool) {
	s := strings.TrimSpace(string(out))
	if s == "" || s == "(null)" {
		return time.Time{}, false
	}
	if t, err := time.Parse(lastUsedLayout, s); err == nil {
		return t, true
	}
	if len(s) < 19 {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s[:19], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ─── Bundle Metadata ─────────────────────────────────────────────────────────

// bundleIDPattern pulls CFBundleIdentifier out of an XML property list.
var bundleIDPattern = regexp.MustCompile(`<key>CFBundleIdentifier</key>\s*<string>([^<]+)</string>`)

// BundleID returns the CFBundleIdentifier declared in an Info.plist. It asks
// `defaults` when available and otherwise reads XML plists directly. Binary
// plists are only readable through `defaults`.
func (p *Prober) BundleID(ctx context.Context, plistPath string) (string, bool) {
	if p.Caps.Defaults != "" {
		out, err := p.Runner.Output(ctx, MetadataTimeout, p.Caps.Defaults, "read", plistPath, "CFBundleIdentifier")
		if err == nil {
			if id := strings.TrimSpace(string(out)); id != "" {
				return id, true
			}
		}
	}
	data, err := os.ReadFile(plistPath)
	if err != nil {
		return "", false
	}
	return ParseBundleID(data)
}

// ParseBundleID extracts CFBundleIdentifier from XML plist data.
func ParseBundleID(data []byte) (string, bool) {
	m := bundleIDPattern.FindSubmatch(data)
	if m == nil {
		return "", false
	}
	id := strings.TrimSpace(string(m[1]))
	return id, id != ""
}

// Package orchestrator runs the scan phases in order, serves cached phase
// results when allowed, merges everything and writes the final report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/diskusage"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/jsonfile"
	"github.com/lakshaymaurya-felt/dcc/internal/merge"
	"github.com/lakshaymaurya-felt/dcc/internal/phasecache"
	"github.com/lakshaymaurya-felt/dcc/internal/probe"
	"github.com/lakshaymaurya-felt/dcc/internal/scan"
	"github.com/lakshaymaurya-felt/dcc/internal/snooze"
)

// ErrStateDir is returned when the state directory cannot be created or
// written. No phase runs in that case.
var ErrStateDir = errors.New("state directory unusable")

// Layout of the dcc directory.
const (
	StateDirName   = "state"
	ReportFileName = "scan.json"
	ConfigFileName = "config.yaml"
)

// Options configure an Orchestrator.
type Options struct {
	// DccDir holds the state directory, the report and the snooze store.
	DccDir string
	Config config.Config
	Home   string

	// Force ignores cached phase results.
	Force bool

	// Phases restricts the run to the named phases. Nil runs every enabled
	// phase.
	Phases []string

	Observer Observer
	Log      logrus.FieldLogger

	// Caps skips tool detection when set.
	Caps *probe.Capabilities
	// Runner executes external tools; nil uses probe.ExecRunner.
	Runner probe.Runner
	// Probe overrides the introspector built from Caps and Runner.
	Probe scan.Introspector
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

// Orchestrator coordinates one scan.
type Orchestrator struct {
	opts  Options
	log   logrus.FieldLogger
	cache *phasecache.Cache
	env   atomic.Pointer[scan.Env]
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Observer == nil {
		opts.Observer = func(Event) {}
	}
	if opts.Home == "" {
		opts.Home, _ = os.UserHomeDir()
	}
	if opts.Config.Phases == nil {
		opts.Config = config.Default()
	}
	return &Orchestrator{
		opts:  opts,
		log:   opts.Log,
		cache: phasecache.New(StateDir(opts.DccDir), opts.Log),
	}
}

// StateDir returns the per-phase cache directory inside dccDir.
func StateDir(dccDir string) string {
	return filepath.Join(dccDir, StateDirName)
}

// ReportPath returns the merged report file inside dccDir.
func ReportPath(dccDir string) string {
	return filepath.Join(dccDir, ReportFileName)
}

// SnoozePath returns the snooze store inside dccDir.
func SnoozePath(dccDir string) string {
	return filepath.Join(dccDir, snooze.FileName)
}

// Cache returns the phase cache.
func (o *Orchestrator) Cache() *phasecache.Cache { return o.cache }

// Visited returns how many filesystem entries the running scan has seen.
// It is safe to call from another goroutine.
func (o *Orchestrator) Visited() int64 {
	if env := o.env.Load(); env != nil {
		return env.Visited.Load()
	}
	return 0
}

// ─── Scan ────────────────────────────────────────────────────────────────────

// Scan runs the selected phases and then merges every cached phase result
// into the report. Unknown phase names are reported and skipped.
func (o *Orchestrator) Scan(ctx context.Context) (finding.Report, error) {
	start := o.opts.Now()
	if err := EnsureStateDir(StateDir(o.opts.DccDir)); err != nil {
		return finding.Report{}, err
	}

	o.env.Store(o.newEnv())
	phases, unknown := o.plan()
	for _, name := range unknown {
		o.log.WithField("phase", name).Warn("unknown phase, skipping")
		o.opts.Observer(Event{Kind: PhaseUnknown, Phase: name})
	}

	for i, name := range phases {
		if err := o.runPhase(ctx, name, i, len(phases)); err != nil {
			return finding.Report{}, err
		}
	}
	return o.merge(start)
}

// Merge merges the cached phase results without scanning.
func (o *Orchestrator) Merge() (finding.Report, error) {
	start := o.opts.Now()
	if err := EnsureStateDir(StateDir(o.opts.DccDir)); err != nil {
		return finding.Report{}, err
	}
	return o.merge(start)
}

// plan returns the known phases to run in canonical order, and the
// requested names that are not phases.
func (o *Orchestrator) plan() (run, unknown []string) {
	requested := o.opts.Phases
	if requested == nil {
		requested = o.opts.Config.EnabledPhases()
		unknown = o.opts.Config.UnknownPhases()
		sort.Strings(unknown)
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		if config.IsKnownPhase(name) {
			want[name] = true
		} else if name != "" {
			unknown = append(unknown, name)
		}
	}
	for _, name := range config.PhaseOrder {
		if want[name] {
			run = append(run, name)
		}
	}
	return run, unknown
}

func (o *Orchestrator) runPhase(ctx context.Context, name string, index, total int) error {
	log := o.log.WithField("phase", name)
	ev := Event{Phase: name, Index: index, Total: total}

	if !o.opts.Force {
		if cached, ok := o.cache.Load(name); ok {
			log.WithField("findings", len(cached.Findings)).Info("using cached results")
			ev.Kind, ev.Findings, ev.Cached = PhaseFinished, len(cached.Findings), true
			o.opts.Observer(ev)
			return nil
		}
	}

	p, _ := scan.Lookup(name)
	ev.Kind = PhaseStarted
	o.opts.Observer(ev)
	log.Info("scanning")

	found, err := p.Run(ctx, o.env.Load())
	if err != nil {
		return fmt.Errorf("phase %s: %w", name, err)
	}
	if _, err := o.cache.Save(name, found, o.opts.Now()); err != nil {
		return fmt.Errorf("save phase %s: %w", name, err)
	}
	log.WithField("findings", len(found)).Info("phase saved")

	ev.Kind, ev.Findings = PhaseFinished, len(found)
	o.opts.Observer(ev)
	return nil
}

// newEnv builds the scan environment, detecting external tools once.
func (o *Orchestrator) newEnv() *scan.Env {
	var caps probe.Capabilities
	if o.opts.Caps != nil {
		caps = *o.opts.Caps
	} else {
		caps = probe.Detect()
	}
	o.log.WithFields(logrus.Fields{
		"du": caps.Du != "", "fd": caps.Fd != "", "git": caps.Git != "",
		"mdls": caps.Mdls != "", "ollama": caps.Ollama != "",
	}).Debug("detected tools")

	usageOpts := []diskusage.Option{diskusage.WithLogger(o.log)}
	if o.opts.Config.FastAccounting {
		if fp := diskusage.NewFastPath(caps, o.opts.Runner); fp != nil {
			usageOpts = append(usageOpts, diskusage.WithFastPath(fp))
		}
	}

	intro := o.opts.Probe
	if intro == nil {
		intro = probe.New(caps, o.opts.Runner)
	}

	now := o.opts.Now()
	return &scan.Env{
		Config:  o.opts.Config,
		Home:    o.opts.Home,
		Now:     now,
		Caps:    caps,
		Usage:   diskusage.New(usageOpts...),
		Snoozed: snooze.Load(SnoozePath(o.opts.DccDir), now, o.log),
		Probe:   intro,
		Log:     o.log,
	}
}

// ─── Merge ───────────────────────────────────────────────────────────────────

func (o *Orchestrator) merge(start time.Time) (finding.Report, error) {
	var results []finding.PhaseResult
	for _, name := range config.PhaseOrder {
		if res, ok := o.cache.Load(name); ok {
			o.log.WithFields(logrus.Fields{"phase": name, "findings": len(res.Findings)}).Debug("merging")
			results = append(results, res)
		}
	}

	now := o.opts.Now()
	report := merge.Report(results, now, now.Sub(start))
	path := ReportPath(o.opts.DccDir)
	if err := jsonfile.Write(path, report); err != nil {
		return report, fmt.Errorf("write report: %w", err)
	}
	o.opts.Observer(Event{Kind: Merged, Findings: report.ItemCount})
	o.log.WithFields(logrus.Fields{
		"findings": report.ItemCount,
		"bytes":    report.TotalReclaimableBytes,
		"path":     path,
	}).Info("report written")
	return report, nil
}

// LoadReport reads a previously written report.
func LoadReport(dccDir string) (finding.Report, error) {
	var r finding.Report
	err := jsonfile.Read(ReportPath(dccDir), &r)
	return r, err
}

// EnsureStateDir creates dir if needed and checks that files can be
// written in it.
func EnsureStateDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrStateDir, err)
	}
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStateDir, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

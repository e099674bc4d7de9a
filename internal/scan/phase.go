package scan

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
)

// Phase is one discovery pass.
type Phase struct {
	Name        string
	Description string
	run         func(ctx context.Context, env *Env) ([]finding.Finding, error)
}

var phases = []Phase{
	{config.PhaseLargeFiles, "Large files", scanLargeFiles},
	{config.PhaseBuildArtifacts, "Build artifacts and dependencies", scanBuildArtifacts},
	{config.PhaseGitRepos, "Git repositories", scanGitRepos},
	{config.PhaseOllamaModels, "Ollama models", scanOllamaModels},
	{config.PhaseHuggingFaceModels, "Hugging Face models", scanHuggingFaceModels},
	{config.PhaseApplications, "Applications", scanApplications},
	{config.PhaseLibraryLeftovers, "Application Support leftovers", scanLibraryLeftovers},
	{config.PhaseCaches, "Caches", scanCaches},
	{config.PhaseLogs, "Log files", scanLogs},
}

// Phases returns every phase in execution order.
func Phases() []Phase {
	return append([]Phase(nil), phases...)
}

// Lookup returns the phase with the given name.
func Lookup(name string) (Phase, bool) {
	for _, p := range phases {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// Run executes the phase. Findings that fail validation are dropped with a
// warning. The only error is cancellation of ctx, in which case the
// findings gathered so far are discarded.
func (p Phase) Run(ctx context.Context, env *Env) ([]finding.Finding, error) {
	env.prepare()
	log := env.Log.WithField("phase", p.Name)
	start := time.Now()

	found, err := p.run(ctx, env)
	if err == nil {
		// A size walk cut short by cancellation leaves partial totals.
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	out := make([]finding.Finding, 0, len(found))
	for _, f := range found {
		if vErr := f.Validate(); vErr != nil {
			log.WithError(vErr).Warn("dropping invalid finding")
			continue
		}
		out = append(out, f)
	}
	log.WithFields(logrus.Fields{
		"findings": len(out),
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	}).Debug("phase complete")
	return out, nil
}

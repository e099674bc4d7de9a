// Package config holds the resolved scanner configuration: scan roots,
// exclusions, thresholds, and which phases are enabled.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

// Phase names, in the order the orchestrator runs them.
const (
	PhaseLargeFiles        = "large_files"
	PhaseBuildArtifacts    = "build_artifacts"
	PhaseGitRepos          = "git_repos"
	PhaseOllamaModels      = "ollama_models"
	PhaseHuggingFaceModels = "huggingface_models"
	PhaseApplications      = "applications"
	PhaseLibraryLeftovers  = "library_leftovers"
	PhaseCaches            = "caches"
	PhaseLogs              = "logs"
)

// PhaseOrder is the fixed execution and merge order of all known phases.
var PhaseOrder = []string{
	PhaseLargeFiles,
	PhaseBuildArtifacts,
	PhaseGitRepos,
	PhaseOllamaModels,
	PhaseHuggingFaceModels,
	PhaseApplications,
	PhaseLibraryLeftovers,
	PhaseCaches,
	PhaseLogs,
}

// IsKnownPhase reports whether name is one of PhaseOrder.
func IsKnownPhase(name string) bool {
	for _, p := range PhaseOrder {
		if p == name {
			return true
		}
	}
	return false
}

// Thresholds are the size floors and staleness tiers used by the phases.
// Sizes are decimal (MB = 1e6 bytes, GB = 1e9 bytes).
type Thresholds struct {
	LargeFileMinGB     float64 `yaml:"large_file_min_gb"`
	LargeFileStaleDays int     `yaml:"large_file_stale_days"`
	StaleDays          int     `yaml:"stale_days"`
	StaleAppDays       int     `yaml:"stale_app_days"`
	ModelStaleDays     int     `yaml:"model_stale_days"`
	LogFileMinMB       float64 `yaml:"log_file_min_mb"`
	ArtifactMinMB      float64 `yaml:"artifact_min_mb"`
	GitMinMB           float64 `yaml:"git_min_mb"`
	GitLooseModerate   int     `yaml:"git_loose_moderate"`
	GitLooseHigh       int     `yaml:"git_loose_high"`
	AppMinMB           float64 `yaml:"app_min_mb"`
	LeftoverMinMB      float64 `yaml:"leftover_min_mb"`
	CacheMinMB         float64 `yaml:"cache_min_mb"`
	ModelMinMB         float64 `yaml:"model_min_mb"`
}

// Config is the resolved configuration consumed by the scan engine.
type Config struct {
	ScanPaths      []string        `yaml:"scan_paths"`
	ExcludePaths   []string        `yaml:"exclude_paths"`
	Thresholds     Thresholds      `yaml:"thresholds"`
	Phases         map[string]bool `yaml:"phases"`
	FastAccounting bool            `yaml:"fast_accounting"`
}

// Default returns a fresh copy of the built-in configuration.
func Default() Config {
	phases := make(map[string]bool, len(PhaseOrder))
	for _, p := range PhaseOrder {
		phases[p] = true
	}
	return Config{
		ScanPaths:    []string{"~/"},
		ExcludePaths: DefaultExcludePaths(),
		Thresholds: Thresholds{
			LargeFileMinGB:     1,
			LargeFileStaleDays: 90,
			StaleDays:          30,
			StaleAppDays:       90,
			ModelStaleDays:     30,
			LogFileMinMB:       100,
			ArtifactMinMB:      10,
			GitMinMB:           100,
			GitLooseModerate:   1000,
			GitLooseHigh:       5000,
			AppMinMB:           500,
			LeftoverMinMB:      50,
			CacheMinMB:         100,
			ModelMinMB:         500,
		},
		Phases: phases,
	}
}

// Load reads a YAML configuration file and merges it over the defaults:
// nested thresholds are merged field by field, phases key by key, and lists
// are replaced. A missing or empty file yields the defaults. A file that
// cannot be parsed also yields the defaults, together with the parse error
// so the caller can report it.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse merges YAML data over the defaults. See Load.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if cfg.Phases == nil {
		cfg.Phases = Default().Phases
	}
	return cfg, nil
}

// EnabledPhases returns the enabled phases in execution order.
func (c Config) EnabledPhases() []string {
	var out []string
	for _, p := range PhaseOrder {
		if c.Phases[p] {
			out = append(out, p)
		}
	}
	return out
}

// UnknownPhases returns configured phase names the engine does not know.
func (c Config) UnknownPhases() []string {
	var out []string
	for name := range c.Phases {
		if !IsKnownPhase(name) {
			out = append(out, name)
		}
	}
	return out
}

// ─── Path Resolution ─────────────────────────────────────────────────────────

// ScanRoots returns the configured scan roots expanded against home.
func (c Config) ScanRoots(home string) []string {
	roots := make([]string, 0, len(c.ScanPaths))
	for _, p := range c.ScanPaths {
		roots = append(roots, pathid.Expand(p, home))
	}
	return roots
}

// Exclusions returns the configured exclusion paths expanded against home.
func (c Config) Exclusions(home string) []string {
	out := make([]string, 0, len(c.ExcludePaths))
	for _, p := range c.ExcludePaths {
		out = append(out, pathid.Expand(p, home))
	}
	return out
}

// Package finding defines the records produced by scan phases and consumed
// by the merge step and the review tooling.
package finding

import (
	"errors"
	"fmt"
	"time"

	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

// Category groups findings by the kind of data they hold.
type Category string

const (
	CategoryApp         Category = "app"
	CategoryNode        Category = "node"
	CategoryRust        Category = "rust"
	CategoryVenv        Category = "venv"
	CategoryModel       Category = "model"
	CategoryCache       Category = "cache"
	CategoryLogs        Category = "logs"
	CategoryGit         Category = "git"
	CategoryBackup      Category = "backup"
	CategoryArchive     Category = "archive"
	CategoryOrphan      Category = "orphan"
	CategoryFile        Category = "file"
	CategoryData        Category = "data"
	CategoryOllama      Category = "ollama"
	CategoryHuggingFace Category = "huggingface"
	CategoryDotnet      Category = "dotnet"
	CategoryJava        Category = "java"
	CategoryGo          Category = "go"
	CategorySwift       Category = "swift"
	CategoryIOS         Category = "ios"
)

// Finding is a single cleanup candidate.
type Finding struct {
	Target         string     `json:"target"`
	Category       Category   `json:"category"`
	SizeBytes      int64      `json:"size_bytes"`
	SizeHuman      string     `json:"size_human"`
	FileCount      int        `json:"file_count"`
	LastModified   *time.Time `json:"last_modified"`
	LastAccessed   *time.Time `json:"last_accessed"`
	StalenessDays  int        `json:"staleness_days"`
	IsArchive      bool       `json:"is_archive"`
	Options        Options    `json:"options"`
	Recommendation ActionID   `json:"recommendation"`
	Reason         string     `json:"reason"`
	ParentProject  string     `json:"parent_project,omitempty"`

	// Category-specific extras.
	LooseObjects     *int   `json:"loose_objects,omitempty"`
	GCPotentialBytes *int64 `json:"gc_potential_bytes,omitempty"`
	AppStore         *bool  `json:"app_store,omitempty"`
	AppInstalled     *bool  `json:"app_installed,omitempty"`
	ModelDigest      string `json:"model_digest,omitempty"`
}

// TargetID returns the structured identity of the finding's target.
func (f Finding) TargetID() pathid.Target {
	return pathid.Parse(f.Target)
}

// Recommended returns the option matching the recommendation. A "skip"
// recommendation resolves to Skip even when it is not listed.
func (f Finding) Recommended() Action {
	if a, ok := f.Options.Find(f.Recommendation); ok {
		return a
	}
	return Skip{}
}

var (
	errNoTarget  = errors.New("finding has no target")
	errNoOptions = errors.New("finding has no action options")
)

// Validate checks the structural invariants every emitted finding must hold.
func (f Finding) Validate() error {
	if f.Target == "" {
		return errNoTarget
	}
	if len(f.Options) == 0 {
		return fmt.Errorf("%s: %w", f.Target, errNoOptions)
	}
	if f.Recommendation != ActionSkip {
		if _, ok := f.Options.Find(f.Recommendation); !ok {
			return fmt.Errorf("%s: recommendation %q is not an offered option", f.Target, f.Recommendation)
		}
	}
	if f.SizeBytes < 0 {
		return fmt.Errorf("%s: negative size %d", f.Target, f.SizeBytes)
	}
	return nil
}

// WithSize sets the size and its human-readable rendering together.
func (f Finding) WithSize(n int64) Finding {
	f.SizeBytes = n
	f.SizeHuman = core.FormatSize(n)
	return f
}

// PhaseResult is the persisted output of one scan phase.
type PhaseResult struct {
	Phase     string    `json:"phase"`
	Generated time.Time `json:"generated"`
	Count     int       `json:"count"`
	Findings  []Finding `json:"findings"`
}

// Report is the merged, deduplicated result of all phases.
type Report struct {
	Generated             time.Time `json:"generated"`
	ScanDurationSec       int64     `json:"scan_duration_sec"`
	TotalReclaimableBytes int64     `json:"total_reclaimable_bytes"`
	ItemCount             int       `json:"item_count"`
	Findings              []Finding `json:"findings"`
}

// Ptr returns a pointer to v, for the optional extra fields.
func Ptr[T any](v T) *T {
	return &v
}

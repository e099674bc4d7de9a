package finding

import (
	"encoding/json"
	"fmt"

	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

// ActionID names an action the user may choose for a finding.
type ActionID string

const (
	ActionDelete   ActionID = "delete"
	ActionCompress ActionID = "compress"
	ActionGitGC    ActionID = "git-gc"
	ActionOllamaRm ActionID = "ollama-rm"
	ActionHFDelete ActionID = "hf-delete"
	ActionRestore  ActionID = "restore"
	ActionSkip     ActionID = "skip"
)

// Action is one choice offered for a finding. The set of implementations is
// closed: Delete, Compress, GitGC, StoreRemove, Restore and Skip.
type Action interface {
	ID() ActionID
	// Reclaim is the estimated number of bytes freed. It is never a guarantee.
	Reclaim() int64
	Reversible() bool
	isAction()
}

// Delete removes the target outright.
type Delete struct {
	ReclaimBytes int64
}

// Compress archives the target and removes the original.
type Compress struct {
	ReclaimBytes int64
}

// GitGC runs garbage collection in the repository owning the target.
type GitGC struct {
	ReclaimBytes int64
}

// StoreRemove removes an entry from an external model store through that
// store's own tooling. Command is the literal command to run.
type StoreRemove struct {
	Store        string // pathid namespace, e.g. "ollama"
	Command      string
	ReclaimBytes int64
}

// Restore undoes an earlier compress.
type Restore struct{}

// Skip leaves the target alone. It is always implicitly available.
type Skip struct{}

func (Delete) ID() ActionID { return ActionDelete }
func (a Delete) Reclaim() int64 { return a.ReclaimBytes }
func (Delete) Reversible() bool { return false }
func (Delete) isAction() {}

func (Compress) ID() ActionID { return ActionCompress }
func (a Compress) Reclaim() int64 { return a.ReclaimBytes }
func (Compress) Reversible() bool { return true }
func (Compress) isAction() {}

func (GitGC) ID() ActionID { return ActionGitGC }
func (a GitGC) Reclaim() int64 { return a.ReclaimBytes }
func (GitGC) Reversible() bool { return false }
func (GitGC) isAction() {}

func (a StoreRemove) Reclaim() int64 { return a.ReclaimBytes }
func (StoreRemove) Reversible() bool { return false }
func (StoreRemove) isAction() {}

func (Restore) ID() ActionID { return ActionRestore }
func (Restore) Reclaim() int64 { return 0 }
func (Restore) Reversible() bool { return true }
func (Restore) isAction() {}

func (Skip) ID() ActionID { return ActionSkip }
func (Skip) Reclaim() int64 { return 0 }
func (Skip) Reversible() bool { return true }
func (Skip) isAction() {}

// ID maps the store namespace onto its removal action.
func (a StoreRemove) ID() ActionID {
	if a.Store == pathid.NamespaceHuggingFace {
		return ActionHFDelete
	}
	return ActionOllamaRm
}

// ─── Wire Format ─────────────────────────────────────────────────────────────

// optionJSON is the persisted form of an action option.
type optionJSON struct {
	ID           ActionID `json:"id"`
	ReclaimBytes int64    `json:"reclaim_bytes"`
	Reversible   bool     `json:"reversible"`
	Command      string   `json:"command,omitempty"`
}

// Options is the ordered list of actions offered for a finding.
type Options []Action

// Find returns the option with the given id.
func (o Options) Find(id ActionID) (Action, bool) {
	for _, a := range o {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// MarshalJSON writes options as {id, reclaim_bytes, reversible[, command]}.
func (o Options) MarshalJSON() ([]byte, error) {
	out := make([]optionJSON, 0, len(o))
	for _, a := range o {
		w := optionJSON{ID: a.ID(), ReclaimBytes: a.Reclaim(), Reversible: a.Reversible()}
		if sr, ok := a.(StoreRemove); ok {
			w.Command = sr.Command
		}
		out = append(out, w)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes persisted options back into concrete actions.
func (o *Options) UnmarshalJSON(data []byte) error {
	var raw []optionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	opts := make(Options, 0, len(raw))
	for _, w := range raw {
		a, err := decodeOption(w)
		if err != nil {
			return err
		}
		opts = append(opts, a)
	}
	*o = opts
	return nil
}

func decodeOption(w optionJSON) (Action, error) {
	switch w.ID {
	case ActionDelete:
		return Delete{ReclaimBytes: w.ReclaimBytes}, nil
	case ActionCompress:
		return Compress{ReclaimBytes: w.ReclaimBytes}, nil
	case ActionGitGC:
		return GitGC{ReclaimBytes: w.ReclaimBytes}, nil
	case ActionOllamaRm:
		return StoreRemove{Store: pathid.NamespaceOllama, Command: w.Command, ReclaimBytes: w.ReclaimBytes}, nil
	case ActionHFDelete:
		return StoreRemove{Store: pathid.NamespaceHuggingFace, Command: w.Command, ReclaimBytes: w.ReclaimBytes}, nil
	case ActionRestore:
		return Restore{}, nil
	case ActionSkip:
		return Skip{}, nil
	}
	return nil, fmt.Errorf("unknown action option %q", w.ID)
}

// Package action maps a finding's chosen action to the shell command that
// carries it out. The commands are meant to be shown to the user or handed
// to an executor; nothing here runs them.
package action

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

var (
	// ErrNoCommand is returned for actions that need no command (skip,
	// restore).
	ErrNoCommand = errors.New("action has no command")

	// ErrUnknownAction is returned for unrecognised action ids.
	ErrUnknownAction = errors.New("unknown action")

	// ErrTargetKind is returned when an action does not apply to the kind
	// of target given, e.g. ollama-rm on a file path.
	ErrTargetKind = errors.New("action does not apply to target")
)

const sudo = "sudo "

// hfHubDir is the Hugging Face hub cache written in home-relative form.
const hfHubDir = "~/.cache/huggingface/hub/"

// Command returns the shell command for applying id to target, and whether
// it needs elevated privileges. home is used to decide elevation and to
// resolve home-relative targets.
func Command(target string, id finding.ActionID, home string) (cmd string, elevated bool, err error) {
	t := pathid.Parse(target)
	if t.IsZero() {
		return "", false, fmt.Errorf("%w: empty target", ErrTargetKind)
	}

	switch id {
	case finding.ActionSkip, finding.ActionRestore:
		return "", false, fmt.Errorf("%s: %w", id, ErrNoCommand)

	case finding.ActionOllamaRm:
		if t.Namespace() != pathid.NamespaceOllama {
			return "", false, fmt.Errorf("%w: %s is not an ollama model", ErrTargetKind, target)
		}
		return "ollama rm " + shellescape.Quote(t.ID()), false, nil

	case finding.ActionHFDelete:
		if t.Namespace() != pathid.NamespaceHuggingFace {
			return "", false, fmt.Errorf("%w: %s is not a Hugging Face model", ErrTargetKind, target)
		}
		return "rm -rf " + quotePath(hfHubDir+HFCacheName(t.ID())), false, nil

	case finding.ActionDelete, finding.ActionCompress, finding.ActionGitGC:
		// handled below
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnknownAction, id)
	}

	if t.IsVirtual() {
		return "", false, fmt.Errorf("%w: %s is not a filesystem path", ErrTargetKind, target)
	}

	elevated = Elevated(t, home)
	prefix := ""
	if elevated {
		prefix = sudo
	}
	p := t.String()

	switch id {
	case finding.ActionGitGC:
		repo := p
		if path.Base(p) == ".git" {
			repo = path.Dir(p)
		}
		cmd = prefix + "git -C " + quotePath(repo) + " gc --aggressive --prune=now"
	case finding.ActionCompress:
		cmd = prefix + "zip -r " + quotePath(p+".zip") + " " + quotePath(p) + " && " + prefix + "rm -rf " + quotePath(p)
	default:
		cmd = prefix + "rm -rf " + quotePath(p)
	}
	return cmd, elevated, nil
}

// HFCacheName returns the hub cache folder for a model id: "org/name"
// becomes "models--org--name".
func HFCacheName(modelID string) string {
	return "models--" + strings.ReplaceAll(modelID, "/", "--")
}

// Elevated reports whether modifying target needs root. Targets in the
// home directory and virtual targets never do; paths under the system
// prefixes do.
func Elevated(t pathid.Target, home string) bool {
	if t.IsVirtual() || t.IsZero() {
		return false
	}
	abs := t.Resolve(home)
	if home != "" && pathid.IsUnder(abs, home) {
		return false
	}
	for _, prefix := range config.SystemPrefixes() {
		if pathid.IsUnder(abs, prefix) {
			return true
		}
	}
	return false
}

// quotePath shell-quotes a target path. A leading "~/" is left unquoted so
// the shell still expands it.
func quotePath(p string) string {
	if p == pathid.Home {
		return p
	}
	if rest, ok := strings.CutPrefix(p, pathid.Home+"/"); ok {
		return pathid.Home + "/" + shellescape.Quote(rest)
	}
	return shellescape.Quote(p)
}

package probe

import (
	"os/exec"
)

// Capabilities records which external tools are available. It is detected
// once when a scan starts and passed down read-only.
type Capabilities struct {
	Du       string // absolute path, "" when missing
	Fd       string
	Git      string
	Mdls     string
	Defaults string
	Ollama   string
}

// LookPathFunc resolves a command name to a path.
type LookPathFunc func(name string) (string, error)

// Detect probes PATH for every tool the scanner can use.
func Detect() Capabilities {
	return DetectWith(exec.LookPath)
}

// DetectWith probes using the given lookup function.
func DetectWith(look LookPathFunc) Capabilities {
	find := func(names ...string) string {
		for _, n := range names {
			if p, err := look(n); err == nil {
				return p
			}
		}
		return ""
	}
	return Capabilities{
		Du: find("du"),
		// Debian and Ubuntu ship fd as fdfind.
		Fd:       find("fd", "fdfind"),
		Git:      find("git"),
		Mdls:     find("mdls"),
		Defaults: find("defaults"),
		Ollama:   find("ollama"),
	}
}

// FastAccounting reports whether the bulk du + fd strategy is usable.
func (c Capabilities) FastAccounting() bool {
	return c.Du != "" && c.Fd != ""
}

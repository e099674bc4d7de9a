package action

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
	"github.com/lakshaymaurya-felt/dcc/internal/probe"
)

// Checker tells whether a target still exists, so stale report entries can
// be hidden.
type Checker struct {
	Home   string
	Ollama string // path to the ollama binary, "" when missing
	Runner probe.Runner
}

// NewChecker creates a Checker using the detected tools.
func NewChecker(home string, caps probe.Capabilities, runner probe.Runner) *Checker {
	if runner == nil {
		runner = probe.ExecRunner{}
	}
	return &Checker{Home: home, Ollama: caps.Ollama, Runner: runner}
}

// Exists reports whether target is still present. When presence cannot be
// determined (ollama missing or failing) the target is assumed to exist.
func (c *Checker) Exists(ctx context.Context, target string) bool {
	t := pathid.Parse(target)
	switch t.Namespace() {
	case pathid.NamespaceOllama:
		return c.ollamaHas(ctx, t.ID())
	case pathid.NamespaceHuggingFace:
		dir := filepath.Join(config.HuggingFaceHubDir(c.Home), HFCacheName(t.ID()))
		_, err := os.Lstat(dir)
		return err == nil
	}
	if t.IsZero() {
		return false
	}
	_, err := os.Lstat(t.Resolve(c.Home))
	return err == nil
}

func (c *Checker) ollamaHas(ctx context.Context, model string) bool {
	if c.Ollama == "" {
		return true
	}
	out, err := c.Runner.Output(ctx, probe.MetadataTimeout, c.Ollama, "list")
	if err != nil {
		return true
	}
	return ListsModel(out, model)
}

// ListsModel reports whether `ollama list` output names model. The first
// line is the column header.
func ListsModel(out []byte, model string) bool {
	sc := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 && fields[0] == model {
			return true
		}
	}
	return false
}

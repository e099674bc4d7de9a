package scan

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/dcc/internal/action"
	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/core"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
)

const (
	ollamaDefaultRegistry  = "registry.ollama.ai"
	ollamaDefaultNamespace = "library"
	ollamaModelMediaType   = "application/vnd.ollama.image.model"
)

// ollamaManifest is the subset of an ollama image manifest the scanner reads.
type ollamaManifest struct {
	Config ollamaLayer   `json:"config"`
	Layers []ollamaLayer `json:"layers"`
}

type ollamaLayer struct {
	MediaType string `json:"mediaType"`
	Digest    string `json:"digest"`
	Size      int64  `json:"size"`
}

// size is the total declared size of the config blob and every layer.
func (m ollamaManifest) size() int64 {
	total := m.Config.Size
	for _, l := range m.Layers {
		total += l.Size
	}
	return total
}

// weights returns the largest model layer, or the largest layer of any kind
// when none is marked as model weights.
func (m ollamaManifest) weights() (ollamaLayer, bool) {
	var best ollamaLayer
	found := false
	for _, l := range m.Layers {
		if l.MediaType == ollamaModelMediaType && (!found || l.Size > best.Size) {
			best, found = l, true
		}
	}
	if found {
		return best, true
	}
	for _, l := range m.Layers {
		if !found || l.Size > best.Size {
			best, found = l, true
		}
	}
	return best, found
}

// blobPath maps a "sha256:<hex>" digest to its file in the blob store.
func blobPath(modelsDir, digest string) string {
	return filepath.Join(modelsDir, "blobs", strings.Replace(digest, ":", "-", 1))
}

// ollamaModelName turns a manifest path relative to the manifests directory
// (registry/namespace/model/tag) into the name ollama itself uses.
func ollamaModelName(rel string) (string, bool) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 4 {
		return "", false
	}
	registry, ns, model, tag := parts[0], parts[1], parts[2], parts[3]
	name := model
	switch {
	case registry == ollamaDefaultRegistry && ns == ollamaDefaultNamespace:
	case registry == ollamaDefaultRegistry:
		name = ns + "/" + model
	default:
		name = registry + "/" + ns + "/" + model
	}
	return name + ":" + tag, true
}

// scanOllamaModels reads the ollama manifest store and reports one finding
// per pulled model tag.
func scanOllamaModels(ctx context.Context, env *Env) ([]finding.Finding, error) {
	th := env.Config.Thresholds
	minBytes := core.MB(th.ModelMinMB)
	modelsDir := config.OllamaModelsDir(env.Home)
	manifests := filepath.Join(modelsDir, "manifests")

	w := newWalker(env, nil)
	var out []finding.Finding
	err := w.walk(ctx, manifests, func(p string, d fs.DirEntry) error {
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(manifests, p)
		if err != nil {
			return nil
		}
		name, ok := ollamaModelName(rel)
		if !ok {
			return nil
		}
		t := pathid.Virtual(pathid.NamespaceOllama, name)
		if !env.admit(t) {
			return nil
		}

		m, err := readOllamaManifest(p)
		if err != nil {
			env.Log.WithError(err).Debugf("skipping manifest %s", p)
			return nil
		}
		size := m.size()
		if size <= 0 || size < minBytes {
			return nil
		}

		// The weights blob is what a run reads, so its access time is the
		// best record of when the model was last used.
		timesFrom := p
		var digest string
		if l, ok := m.weights(); ok {
			digest = l.Digest
			if bp := blobPath(modelsDir, l.Digest); fileExists(bp) {
				timesFrom = bp
			}
		}
		days := env.stale.Days(timesFrom)

		cmd, _, err := action.Command(t.String(), finding.ActionOllamaRm, env.Home)
		if err != nil {
			return nil
		}
		f := env.newFinding(t, timesFrom, finding.CategoryOllama, size, len(m.Layers)+1, days)
		f.Options = finding.Options{finding.StoreRemove{Store: pathid.NamespaceOllama, Command: cmd, ReclaimBytes: size}}
		f.Recommendation = recommend(days > th.ModelStaleDays, finding.ActionOllamaRm)
		f.Reason = "ollama pull " + name
		f.ModelDigest = digest
		out = append(out, f)
		return nil
	})
	return out, err
}

func readOllamaManifest(path string) (ollamaManifest, error) {
	var m ollamaManifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}

func fileExists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

// Package pathid gives cleanup targets a structured identity.
//
// A target is either a filesystem path written relative to the user's home
// directory ("~/src/app/node_modules"), an absolute path outside it
// ("/Applications/Xcode.app"), or a virtual identifier for stores that have
// no single path ("ollama:llama3:8b", "huggingface:org/model"). Target strings
// always use forward slashes and never carry a trailing separator, so
// ancestor checks can compare whole path components instead of raw prefixes.
package pathid

import (
	"path"
	"path/filepath"
	"strings"
)

// Home is the prefix that stands for the user's home directory.
const Home = "~"

// Virtual namespaces for targets that are resolved through an external store.
const (
	NamespaceOllama      = "ollama"
	NamespaceHuggingFace = "huggingface"
)

var virtualNamespaces = map[string]bool{
	NamespaceOllama:      true,
	NamespaceHuggingFace: true,
}

// Target is a normalized cleanup target identifier.
type Target struct {
	raw     string
	virtual bool
}

// Parse normalizes a target string read from persisted state or built by a
// scanner.
func Parse(s string) Target {
	s = strings.TrimSpace(s)
	if ns, _, ok := strings.Cut(s, ":"); ok && virtualNamespaces[ns] {
		return Target{raw: s, virtual: true}
	}
	if s == "" {
		return Target{}
	}
	s = filepath.ToSlash(s)
	cleaned := path.Clean(s)
	return Target{raw: cleaned}
}

// FromPath builds the canonical target for an absolute filesystem path:
// paths inside home become "~/..." and everything else stays absolute.
func FromPath(abs, home string) Target {
	if rel, ok := Relativize(abs, home); ok {
		if rel == "." {
			return Target{raw: Home}
		}
		return Target{raw: Home + "/" + filepath.ToSlash(rel)}
	}
	return Parse(abs)
}

// Virtual builds a namespaced virtual target such as "ollama:llama3:8b".
func Virtual(namespace, id string) Target {
	return Target{raw: namespace + ":" + id, virtual: true}
}

// String returns the canonical identifier.
func (t Target) String() string { return t.raw }

// IsZero reports whether the target is empty.
func (t Target) IsZero() bool { return t.raw == "" }

// IsVirtual reports whether the target names an entry in an external store.
func (t Target) IsVirtual() bool { return t.virtual }

// Namespace returns the namespace of a virtual target ("" for paths).
func (t Target) Namespace() string {
	if !t.virtual {
		return ""
	}
	ns, _, _ := strings.Cut(t.raw, ":")
	return ns
}

// ID returns the part of a virtual target after its namespace.
func (t Target) ID() string {
	if !t.virtual {
		return ""
	}
	_, id, _ := strings.Cut(t.raw, ":")
	return id
}

// Depth counts path separators; virtual targets have depth zero.
func (t Target) Depth() int {
	if t.virtual {
		return 0
	}
	return strings.Count(t.raw, "/")
}

// IsAncestorOf reports whether t is a proper ancestor directory of o.
// Siblings that merely share a prefix ("~/proj" and "~/proj2") are not
// ancestors. Virtual targets never participate in ancestry.
func (t Target) IsAncestorOf(o Target) bool {
	if t.virtual || o.virtual || t.raw == "" || o.raw == "" || t.raw == o.raw {
		return false
	}
	if t.raw == "/" {
		return strings.HasPrefix(o.raw, "/")
	}
	return strings.HasPrefix(o.raw, t.raw+"/")
}

// Resolve returns the absolute filesystem path for a path target, expanding
// the home prefix. Virtual targets resolve to "".
func (t Target) Resolve(home string) string {
	if t.virtual || t.raw == "" {
		return ""
	}
	return Expand(t.raw, home)
}

// Expand replaces a leading "~" with home and returns a cleaned native path.
func Expand(p, home string) string {
	switch {
	case p == Home:
		return filepath.Clean(home)
	case strings.HasPrefix(p, Home+"/"), strings.HasPrefix(p, Home+string(filepath.Separator)):
		return filepath.Join(home, filepath.FromSlash(p[2:]))
	}
	return filepath.Clean(filepath.FromSlash(p))
}

// Relativize returns abs relative to home when abs lies inside home.
func Relativize(abs, home string) (string, bool) {
	if home == "" {
		return "", false
	}
	if !IsUnder(abs, home) {
		return "", false
	}
	rel, err := filepath.Rel(filepath.Clean(home), filepath.Clean(abs))
	if err != nil {
		return "", false
	}
	return rel, true
}

// IsUnder reports whether p equals root or lies beneath it, comparing whole
// path components.
func IsUnder(p, root string) bool {
	if p == "" || root == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(p))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

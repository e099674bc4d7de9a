package scan

import (
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/dcc/internal/finding"
)

// ─── Build Artifacts ─────────────────────────────────────────────────────────

// artifactRule maps a project marker file to the directories it implies.
type artifactRule struct {
	Marker   string // file name or glob
	Dirs     []string
	Category finding.Category
	Restore  string // how to get the directories back
}

// artifactRules is ordered: when several markers in one project point at the
// same directory, the earliest rule supplies its category and reason.
var artifactRules = []artifactRule{
	{"package.json", []string{"node_modules"}, finding.CategoryNode, "npm install"},
	{"package-lock.json", []string{"node_modules"}, finding.CategoryNode, "npm install"},
	{"yarn.lock", []string{"node_modules"}, finding.CategoryNode, "yarn install"},
	{"pnpm-lock.yaml", []string{"node_modules"}, finding.CategoryNode, "pnpm install"},
	{"Cargo.toml", []string{"target"}, finding.CategoryRust, "cargo build"},
	{"pyproject.toml", []string{".venv", "venv", ".pytest_cache", ".mypy_cache", ".ruff_cache"}, finding.CategoryVenv, "uv sync / pip install"},
	{"setup.py", []string{".venv", "venv"}, finding.CategoryVenv, "pip install -e ."},
	{"requirements.txt", []string{".venv", "venv"}, finding.CategoryVenv, "pip install -r requirements.txt"},
	{"go.mod", []string{"vendor"}, finding.CategoryGo, "go mod vendor"},
	{"build.gradle", []string{"build", ".gradle"}, finding.CategoryJava, "gradle build"},
	{"pom.xml", []string{"target"}, finding.CategoryJava, "mvn package"},
	{"*.csproj", []string{"bin", "obj"}, finding.CategoryDotnet, "dotnet build"},
	{"Package.swift", []string{".build"}, finding.CategorySwift, "swift build"},
	{"Podfile", []string{"Pods"}, finding.CategoryIOS, "pod install"},
}

// markerSkipNames are directories the marker search never enters: version
// control metadata and the artifact directories themselves, whose vendored
// packages carry marker files of their own.
var markerSkipNames = []string{
	".git",
	"node_modules",
	".venv",
	"venv",
	"Pods",
	".build",
	".gradle",
	"__pycache__",
}

// matchArtifactRule returns the index of the first rule whose marker matches
// the file name, or -1.
func matchArtifactRule(name string) int {
	for i, r := range artifactRules {
		if !strings.ContainsAny(r.Marker, "*?[") {
			if name == r.Marker {
				return i
			}
			continue
		}
		if ok, _ := filepath.Match(r.Marker, name); ok {
			return i
		}
	}
	return -1
}

// ─── Large Files ─────────────────────────────────────────────────────────────

type fileRule struct {
	Exts     []string
	Category finding.Category
	Reason   string
}

var largeFileRules = []fileRule{
	{[]string{".iso", ".dmg", ".pkg"}, finding.CategoryFile, "Installer image, re-download if needed"},
	{[]string{".zip", ".tar", ".gz", ".7z", ".rar"}, finding.CategoryArchive, "Archive file"},
	{[]string{".gguf", ".bin", ".safetensors", ".pt", ".onnx"}, finding.CategoryModel, "LLM/ML model, re-download if needed"},
	{[]string{".mp4", ".mov", ".avi", ".mkv"}, finding.CategoryFile, "Video file"},
}

const largeFileReason = "Large file, re-download if needed"

// vmDiskExts are virtual machine disks. They keep their category but get a
// warning as the reason.
var vmDiskExts = map[string]bool{".qcow2": true, ".vmdk": true, ".vdi": true, ".raw": true}

const vmDiskReason = "VM disk image - verify not in use"

// compressedExts gain nothing from compression, so no compress option is
// offered for them.
var compressedExts = map[string]bool{".zip": true, ".gz": true, ".7z": true, ".dmg": true, ".rar": true, ".xz": true}

// classifyLargeFile picks the category and reason for a large file. target
// is the canonical target, searched for the word "backup".
func classifyLargeFile(target string) (finding.Category, string) {
	ext := strings.ToLower(filepath.Ext(target))
	cat, reason := finding.CategoryFile, largeFileReason

	matched := false
	for _, r := range largeFileRules {
		for _, e := range r.Exts {
			if e == ext {
				cat, reason, matched = r.Category, r.Reason, true
			}
		}
	}
	if !matched && strings.Contains(strings.ToLower(target), "backup") {
		cat, reason = finding.CategoryBackup, "Backup file"
	}
	if vmDiskExts[ext] {
		reason = vmDiskReason
	}
	return cat, reason
}

// ─── Logs ────────────────────────────────────────────────────────────────────

// isLogName reports whether a file name matches any of the log patterns.
func isLogName(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

package config

import (
	"path/filepath"
)

// Location is a fixed filesystem location a phase inspects.
type Location struct {
	// Path is the absolute location.
	Path string

	// Category is the finding category assigned to what is found there.
	Category string

	// Description is a human-readable description.
	Description string
}

// DefaultExcludePaths lists the locations never scanned: cloud-synced
// folders, the trash, and VM or container runtimes that are dangerous to
// delete piecemeal.
func DefaultExcludePaths() []string {
	return []string{
		"~/Library/Mobile Documents",
		"~/.Trash",
		"~/Library/CloudStorage",
		"~/Library/Group Containers/UBF8T346G9.OneDriveStandaloneSuite",

		// ── VM and Container Runtimes ───────────────────────────
		"~/.colima",
		"~/.lima",
		"~/.docker",
		"~/.orbstack",
		"~/.podman",
		"~/Library/Containers/com.docker.docker",
		"~/Library/Containers/com.utmapp.UTM",
		"~/Library/Containers/dev.kdrag0n.MacVirt",

		// ── Virtualization Data ─────────────────────────────────
		"~/Virtual Machines.localized",
		"~/Parallels",
		"~/.vagrant.d/boxes",
	}
}

// ─── Store Locations ─────────────────────────────────────────────────────────

// OllamaModelsDir returns the ollama model store (manifests + blobs).
func OllamaModelsDir(home string) string {
	return filepath.Join(home, ".ollama", "models")
}

// HuggingFaceDir returns the root of the Hugging Face cache.
func HuggingFaceDir(home string) string {
	return filepath.Join(home, ".cache", "huggingface")
}

// HuggingFaceHubDir returns the directory holding one folder per cached model.
func HuggingFaceHubDir(home string) string {
	return filepath.Join(HuggingFaceDir(home), "hub")
}

// ModelStoreDirs are the model stores owned by the dedicated model phases.
// Other phases skip them so no bytes are reported twice.
func ModelStoreDirs(home string) []string {
	return []string{OllamaModelsDir(home), HuggingFaceDir(home)}
}

// ─── Cache Locations ─────────────────────────────────────────────────────────

// UserCachesDir returns ~/Library/Caches, scanned one subdirectory at a time.
func UserCachesDir(home string) string {
	return filepath.Join(home, "Library", "Caches")
}

// CacheLocations returns whole-directory cache locations.
func CacheLocations(home string) []Location {
	return []Location{
		{
			Path:        filepath.Join(home, "Library", "Developer", "CoreSimulator", "Caches"),
			Category:    "cache",
			Description: "iOS simulator caches",
		},
		{
			Path:        filepath.Join(home, ".cache"),
			Category:    "cache",
			Description: "XDG user cache",
		},
		{
			Path:        filepath.Join(home, ".npm", "_cacache"),
			Category:    "cache",
			Description: "npm package cache",
		},
		{
			Path:        filepath.Join(home, ".cargo", "registry", "cache"),
			Category:    "cache",
			Description: "Rust cargo registry cache",
		},
	}
}

// ModelCacheLocations returns directories whose subdirectories are individual
// downloaded models not managed by ollama or the Hugging Face hub.
func ModelCacheLocations(home string) []Location {
	return []Location{
		{
			Path:        filepath.Join(home, ".cache", "torch"),
			Category:    "model",
			Description: "PyTorch hub checkpoints",
		},
	}
}

// ─── Logs ────────────────────────────────────────────────────────────────────

// LogDirs returns the directories searched for oversized log files.
func LogDirs(home string) []string {
	return []string{
		filepath.Join(home, "Library", "Logs"),
		filepath.Join(home, ".local", "share"),
	}
}

// LogPatterns are the file name globs treated as logs.
var LogPatterns = []string{"*.log", "*.log.*", "*.out", "*.err"}

// ─── Applications ────────────────────────────────────────────────────────────

// AppDirs returns the directories holding installed application bundles.
func AppDirs(home string) []string {
	return []string{
		"/Applications",
		filepath.Join(home, "Applications"),
	}
}

// AppSupportDir returns ~/Library/Application Support.
func AppSupportDir(home string) string {
	return filepath.Join(home, "Library", "Application Support")
}

// ─── Privilege ───────────────────────────────────────────────────────────────

// SystemPrefixes are locations outside the home directory whose contents
// need elevated privileges to modify.
func SystemPrefixes() []string {
	return []string{
		"/Applications",
		"/Library",
		"/usr",
		"/opt",
		"/var",
		"/private",
	}
}

package core

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// PlatformString returns a human-readable description of the host OS.
// Examples: "darwin 15.1 (arm64)", "ubuntu 24.04 (amd64)".
// Falls back to runtime.GOOS when host information is unavailable.
func PlatformString() string {
	info, err := host.Info()
	if err != nil || info.Platform == "" {
		return fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH)
	}
	if info.PlatformVersion == "" {
		return fmt.Sprintf("%s (%s)", info.Platform, runtime.GOARCH)
	}
	return fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, runtime.GOARCH)
}

// IsMacOS reports whether the scanner runs on macOS, where application
// bundles, Spotlight metadata, and ~/Library locations exist.
func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}

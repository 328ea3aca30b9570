// Package platform defines the closed set of target platforms marmot can
// resolve manifests for, along with the dependency classifications used by
// the manifest format.
package platform

import (
	"fmt"
	"runtime"
)

// Platform identifies a supported operating-system/architecture pair.
// The zero value is not a valid platform; use Parse or Current.
type Platform string

// The closed set of platforms a project may target.
const (
	Linux64      Platform = "linux-64"
	LinuxAarch64 Platform = "linux-aarch64"
	LinuxPPC64LE Platform = "linux-ppc64le"
	Osx64        Platform = "osx-64"
	OsxArm64     Platform = "osx-arm64"
	Win64        Platform = "win-64"
	WinArm64     Platform = "win-arm64"
)

// All lists every supported platform in stable order.
var All = []Platform{
	Linux64,
	LinuxAarch64,
	LinuxPPC64LE,
	Osx64,
	OsxArm64,
	Win64,
	WinArm64,
}

var valid = func() map[Platform]bool {
	m := make(map[Platform]bool, len(All))
	for _, p := range All {
		m[p] = true
	}
	return m
}()

// Parse converts a manifest platform string (e.g., "linux-64") to a Platform.
// Returns an error for strings outside the supported set.
func Parse(s string) (Platform, error) {
	p := Platform(s)
	if !valid[p] {
		return "", fmt.Errorf("unsupported platform: %q", s)
	}
	return p, nil
}

// String returns the manifest representation of the platform.
func (p Platform) String() string { return string(p) }

// IsLinux reports whether the platform runs a Linux kernel.
func (p Platform) IsLinux() bool {
	return p == Linux64 || p == LinuxAarch64 || p == LinuxPPC64LE
}

// IsOsx reports whether the platform runs macOS.
func (p Platform) IsOsx() bool {
	return p == Osx64 || p == OsxArm64
}

// IsWindows reports whether the platform runs Windows.
func (p Platform) IsWindows() bool {
	return p == Win64 || p == WinArm64
}

// Current returns the platform of the running host.
func Current() Platform {
	switch runtime.GOOS {
	case "linux":
		switch runtime.GOARCH {
		case "arm64":
			return LinuxAarch64
		case "ppc64le":
			return LinuxPPC64LE
		default:
			return Linux64
		}
	case "darwin":
		if runtime.GOARCH == "arm64" {
			return OsxArm64
		}
		return Osx64
	case "windows":
		if runtime.GOARCH == "arm64" {
			return WinArm64
		}
		return Win64
	default:
		return Linux64
	}
}

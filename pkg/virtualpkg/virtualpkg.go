// Package virtualpkg models virtual packages: synthetic requirements that
// describe properties of the runtime environment (minimum libc, kernel or
// OS version) rather than installable artifacts. The solver treats them as
// pre-installed packages whose versions come from the host.
package virtualpkg

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/marmot-dev/marmot/pkg/platform"
)

// Virtual package names as they appear to the solver.
const (
	NameLibC  = "__glibc"
	NameLinux = "__linux"
	NameOsx   = "__osx"
	NameWin   = "__win"
	NameCuda  = "__cuda"
)

// VirtualPackage is one synthetic requirement derived from the manifest's
// system-requirements section.
type VirtualPackage struct {
	Name    string          // solver-visible name, e.g. "__glibc"
	Family  string          // libc family ("glibc"); empty otherwise
	Version *semver.Version // minimum required version, nil if unversioned
}

// String returns the requirement in "name family version" display form.
func (v VirtualPackage) String() string {
	out := v.Name
	if v.Family != "" {
		out += " " + v.Family
	}
	if v.Version != nil {
		out += " >=" + v.Version.String()
	}
	return out
}

// LibC builds a libc virtual package. An empty family defaults to glibc.
func LibC(family, version string) (VirtualPackage, error) {
	if family == "" {
		family = "glibc"
	}
	ver, err := parseVersion(version)
	if err != nil {
		return VirtualPackage{}, fmt.Errorf("libc version: %w", err)
	}
	return VirtualPackage{Name: NameLibC, Family: family, Version: ver}, nil
}

// Irrelevant reports whether the requirement has no meaning on the given
// platform, e.g. a libc requirement on Windows. Irrelevant requirements are
// dropped when filtering system requirements for a target platform.
func Irrelevant(v VirtualPackage, p platform.Platform) bool {
	switch v.Name {
	case NameLibC, NameLinux:
		return !p.IsLinux()
	case NameOsx:
		return !p.IsOsx()
	case NameWin:
		return !p.IsWindows()
	default:
		// Cuda and unrecognized virtual packages apply everywhere.
		return false
	}
}

// parseVersion accepts the loose two-component versions common in system
// requirements ("2.12", "5.10") as well as full semver strings.
func parseVersion(s string) (*semver.Version, error) {
	if s == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}

package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/marmot-dev/marmot/pkg/virtualpkg"
)

// LibCRequirement is the minimum libc the project needs at runtime.
// Family defaults to glibc when the manifest only gives a version.
type LibCRequirement struct {
	Family  string
	Version *semver.Version
}

// SystemRequirements describes the minimal reference machine the project
// needs. It is declared once, on the default target; platform overrides do
// not refine it.
//
// The section accepts both shorthand and table forms for libc:
//
//	[system-requirements]
//	libc = "2.12"
//	linux = "5.10"
//
//	[system-requirements.libc]
//	version = "2.12"
//	family = "glibc"
type SystemRequirements struct {
	Linux *semver.Version
	Macos *semver.Version
	Cuda  *semver.Version
	LibC  *LibCRequirement
}

// UnmarshalTOML decodes the system-requirements table, validating all
// version strings at load time.
func (s *SystemRequirements) UnmarshalTOML(data any) error {
	table, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("system-requirements must be a table, got %T", data)
	}

	for key, value := range table {
		switch key {
		case "linux":
			v, err := requirementVersion(key, value)
			if err != nil {
				return err
			}
			s.Linux = v
		case "macos":
			v, err := requirementVersion(key, value)
			if err != nil {
				return err
			}
			s.Macos = v
		case "cuda":
			v, err := requirementVersion(key, value)
			if err != nil {
				return err
			}
			s.Cuda = v
		case "libc":
			req, err := libcRequirement(value)
			if err != nil {
				return err
			}
			s.LibC = req
		default:
			return fmt.Errorf("unknown system requirement %q", key)
		}
	}
	return nil
}

// VirtualPackages expands the requirement set into concrete virtual-package
// entries in declared order: kernel first, then libc, OS, cuda.
func (s *SystemRequirements) VirtualPackages() []virtualpkg.VirtualPackage {
	var out []virtualpkg.VirtualPackage
	if s.Linux != nil {
		out = append(out, virtualpkg.VirtualPackage{Name: virtualpkg.NameLinux, Version: s.Linux})
	}
	if s.LibC != nil {
		out = append(out, virtualpkg.VirtualPackage{
			Name:    virtualpkg.NameLibC,
			Family:  s.LibC.Family,
			Version: s.LibC.Version,
		})
	}
	if s.Macos != nil {
		out = append(out, virtualpkg.VirtualPackage{Name: virtualpkg.NameOsx, Version: s.Macos})
	}
	if s.Cuda != nil {
		out = append(out, virtualpkg.VirtualPackage{Name: virtualpkg.NameCuda, Version: s.Cuda})
	}
	return out
}

func requirementVersion(key string, value any) (*semver.Version, error) {
	str, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("system requirement %s must be a version string, got %T", key, value)
	}
	v, err := semver.NewVersion(str)
	if err != nil {
		return nil, fmt.Errorf("system requirement %s: invalid version %q: %w", key, str, err)
	}
	return v, nil
}

func libcRequirement(value any) (*LibCRequirement, error) {
	switch v := value.(type) {
	case string:
		ver, err := requirementVersion("libc", v)
		if err != nil {
			return nil, err
		}
		return &LibCRequirement{Family: "glibc", Version: ver}, nil
	case map[string]any:
		req := &LibCRequirement{Family: "glibc"}
		for key, val := range v {
			switch key {
			case "version":
				ver, err := requirementVersion("libc.version", val)
				if err != nil {
					return nil, err
				}
				req.Version = ver
			case "family":
				family, ok := val.(string)
				if !ok {
					return nil, fmt.Errorf("libc family must be a string, got %T", val)
				}
				req.Family = family
			default:
				return nil, fmt.Errorf("unknown libc requirement key %q", key)
			}
		}
		if req.Version == nil {
			return nil, fmt.Errorf("libc requirement needs a version")
		}
		return req, nil
	default:
		return nil, fmt.Errorf("libc requirement must be a version string or a table, got %T", value)
	}
}

package project

import (
	"github.com/marmot-dev/marmot/pkg/manifest"
	"github.com/marmot-dev/marmot/pkg/platform"
	"github.com/marmot-dev/marmot/pkg/virtualpkg"
)

// SystemRequirements returns the requirement set declared on the default
// feature. Requirements describe the minimal reference machine the project
// runs on and are not overridden per platform.
func (p *Project) SystemRequirements() *manifest.SystemRequirements {
	return p.manifest.DefaultFeature().DefaultTarget().SystemRequirements()
}

// VirtualPackagesForPlatform expands the system requirements into virtual
// package entries and drops those irrelevant to the platform, e.g. a libc
// requirement on Windows. Surviving entries keep their declared order.
func (p *Project) VirtualPackagesForPlatform(plat platform.Platform) []virtualpkg.VirtualPackage {
	var out []virtualpkg.VirtualPackage
	for _, vp := range p.SystemRequirements().VirtualPackages() {
		if !virtualpkg.Irrelevant(vp, plat) {
			out = append(out, vp)
		}
	}
	return out
}

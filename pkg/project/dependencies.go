package project

import (
	"github.com/marmot-dev/marmot/pkg/manifest"
	"github.com/marmot-dev/marmot/pkg/ordmap"
	"github.com/marmot-dev/marmot/pkg/platform"
)

// Dependencies returns the merged dependency map of the given kind for a
// platform. The default feature's target sequence is folded least specific
// first, so a platform override can replace a constraint declared in the
// default layer without moving the package in the output order, and
// packages the override introduces are appended after existing ones.
func (p *Project) Dependencies(plat platform.Platform, kind platform.SpecKind) *manifest.DependencyMap {
	out := ordmap.New[string, string]()
	targets := p.manifest.DefaultFeature().Resolve(&plat)
	for i := len(targets) - 1; i >= 0; i-- {
		out.Merge(targets[i].Dependencies(kind))
	}
	return out
}

// AllDependencies combines the run, host and build dependency sets for a
// platform into one map. Kinds are merged in that order, so when the same
// package name appears under several kinds the build constraint wins over
// host, which wins over run.
func (p *Project) AllDependencies(plat platform.Platform) *manifest.DependencyMap {
	out := p.Dependencies(plat, platform.Run)
	out.Merge(p.Dependencies(plat, platform.Host))
	out.Merge(p.Dependencies(plat, platform.Build))
	return out
}

// PyPiDependencies returns the merged PyPI requirement map for a platform.
// PyPI requirements live in their own map and are never folded into the
// conda dependency sets.
func (p *Project) PyPiDependencies(plat platform.Platform) *manifest.DependencyMap {
	out := ordmap.New[string, string]()
	targets := p.manifest.DefaultFeature().Resolve(&plat)
	for i := len(targets) - 1; i >= 0; i-- {
		out.Merge(targets[i].PyPiDependencies())
	}
	return out
}

// HasPyPiDependencies reports whether the project declares any PyPI
// dependencies in any feature or target.
func (p *Project) HasPyPiDependencies() bool {
	return p.manifest.HasPyPiDependencies()
}

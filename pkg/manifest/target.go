package manifest

import (
	"github.com/marmot-dev/marmot/pkg/ordmap"
	"github.com/marmot-dev/marmot/pkg/platform"
	"github.com/marmot-dev/marmot/pkg/task"
)

// DependencyMap maps normalized package names to version constraints,
// preserving declaration order.
type DependencyMap = ordmap.Map[string, string]

// Activation declares scripts to source when activating the environment.
// Paths are relative to the project root; their order is execution order.
type Activation struct {
	Scripts []string `toml:"scripts"`
}

// Target is one configuration layer: either the unconditioned default layer
// of a feature or a platform-specific override. Targets are built once at
// manifest load time and never mutated afterwards.
type Target struct {
	dependencies map[platform.SpecKind]*DependencyMap
	pypi         *DependencyMap
	activation   *Activation
	tasks        *ordmap.Map[string, *task.Task]
	sysreq       *SystemRequirements
}

// Dependencies returns the dependency map for the given kind, or nil if the
// target declares none.
func (t *Target) Dependencies(kind platform.SpecKind) *DependencyMap {
	if t == nil {
		return nil
	}
	return t.dependencies[kind]
}

// PyPiDependencies returns the PyPI requirement map, or nil if absent.
func (t *Target) PyPiDependencies() *DependencyMap {
	if t == nil {
		return nil
	}
	return t.pypi
}

// Activation returns the activation block, or nil if absent.
func (t *Target) Activation() *Activation {
	if t == nil {
		return nil
	}
	return t.activation
}

// Tasks returns the task table in declaration order, or nil if absent.
func (t *Target) Tasks() *ordmap.Map[string, *task.Task] {
	if t == nil {
		return nil
	}
	return t.tasks
}

// SystemRequirements returns the declared requirement set. Only the default
// target carries one in practice.
func (t *Target) SystemRequirements() *SystemRequirements {
	if t == nil || t.sysreq == nil {
		return &SystemRequirements{}
	}
	return t.sysreq
}

// Feature bundles one default target with zero or more platform-conditioned
// override targets. Override depth is exactly one level: a platform target
// never has further nested overrides.
type Feature struct {
	name          string
	defaultTarget *Target
	targets       map[platform.Platform]*Target
}

// Name returns the feature name ("default" for the implicit feature).
func (f *Feature) Name() string { return f.name }

// DefaultTarget returns the unconditioned layer of the feature.
func (f *Feature) DefaultTarget() *Target { return f.defaultTarget }

// TargetFor returns the platform override target, or nil if none exists.
func (f *Feature) TargetFor(p platform.Platform) *Target { return f.targets[p] }

// Resolve returns the targets applicable to the request, most specific
// first. With a nil platform only the default target applies. With a
// platform that has an override the sequence is [override, default]; absence
// of an override is the normal path, not an error.
//
// This ordering is the single source of truth for the merge and override
// policies built on top of it: merge consumers traverse it in reverse and
// let later layers overwrite, override consumers take the first layer that
// has the data.
func (f *Feature) Resolve(p *platform.Platform) []*Target {
	if p == nil {
		return []*Target{f.defaultTarget}
	}
	if t, ok := f.targets[*p]; ok {
		return []*Target{t, f.defaultTarget}
	}
	return []*Target{f.defaultTarget}
}

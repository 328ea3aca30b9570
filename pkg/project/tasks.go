package project

import (
	"sort"

	"github.com/marmot-dev/marmot/pkg/platform"
	"github.com/marmot-dev/marmot/pkg/task"
)

// Tasks returns the effective task table for a platform. A task redefined
// in a platform target fully replaces the default definition, dependency
// list included. Pass nil for the default target only.
func (p *Project) Tasks(plat *platform.Platform) map[string]*task.Task {
	return p.manifest.Tasks(plat)
}

// TaskOpt returns the task with the given name for a platform, or nil if
// no such task exists.
func (p *Project) TaskOpt(name string, plat *platform.Platform) *task.Task {
	return p.manifest.Tasks(plat)[name]
}

// TaskNames returns the sorted names of all tasks for a platform.
func (p *Project) TaskNames(plat *platform.Platform) []string {
	tasks := p.manifest.Tasks(plat)
	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TaskNamesDependingOn returns the sorted names of tasks whose depends_on
// list contains name, never including name itself. It resolves against the
// current host platform rather than a caller-supplied one; this asymmetry
// with the other task queries is inherited behavior, kept deliberately
// until the task API grows an explicit platform parameter everywhere.
// An unknown name yields an empty result, not an error.
func (p *Project) TaskNamesDependingOn(name string) []string {
	host := platform.Current()
	tasks := p.manifest.Tasks(&host)
	if _, ok := tasks[name]; !ok {
		return nil
	}

	var out []string
	for other, t := range tasks {
		if other != name && t.Depends(name) {
			out = append(out, other)
		}
	}
	sort.Strings(out)
	return out
}

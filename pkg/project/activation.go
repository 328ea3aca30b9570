package project

import (
	"os"
	"path/filepath"

	"github.com/marmot-dev/marmot/pkg/platform"
)

// ActivationScripts returns the resolved absolute paths of the activation
// scripts for a platform, in declared order.
//
// The most specific target that defines an activation block wins outright;
// scripts are never merged across layers. Declared scripts that do not
// exist on disk are dropped with a warning rather than failing resolution.
func (p *Project) ActivationScripts(plat platform.Platform) ([]string, error) {
	var scripts []string
	for _, target := range p.manifest.DefaultFeature().Resolve(&plat) {
		if a := target.Activation(); a != nil {
			scripts = a.Scripts
			break
		}
	}

	var paths, missing []string
	for _, script := range scripts {
		full := filepath.Join(p.root, script)
		if _, err := os.Stat(full); err == nil {
			paths = append(paths, full)
			p.logger.Debug("found activation script", "script", script)
		} else {
			missing = append(missing, script)
		}
	}

	if len(missing) > 0 {
		p.logger.Warn("can't find activation scripts", "scripts", missing)
	}
	return paths, nil
}

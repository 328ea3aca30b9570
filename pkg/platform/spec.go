package platform

// SpecKind classifies conda-style dependencies by when they are needed.
type SpecKind int

const (
	// Run dependencies are needed when running the project.
	Run SpecKind = iota
	// Host dependencies are needed by the host environment when running
	// the project.
	Host
	// Build dependencies are needed to build the project and may be absent
	// at runtime.
	Build
)

// SpecKinds lists the conda dependency kinds in merge-precedence order:
// later kinds win when the same package name appears under several kinds.
var SpecKinds = []SpecKind{Run, Host, Build}

// Name returns the manifest section name for the kind.
func (k SpecKind) Name() string {
	switch k {
	case Host:
		return "host-dependencies"
	case Build:
		return "build-dependencies"
	default:
		return "dependencies"
	}
}

// DependencyType identifies a dependency class as it appears in the
// manifest: one of the conda SpecKinds, or the separate PyPI class.
type DependencyType struct {
	kind SpecKind
	pypi bool
}

// CondaDependency wraps a SpecKind as a DependencyType.
func CondaDependency(kind SpecKind) DependencyType {
	return DependencyType{kind: kind}
}

// PyPiDependency is the dependency type for PyPI requirements. Its value
// type differs from the conda kinds, so it never shares a map with them.
var PyPiDependency = DependencyType{pypi: true}

// Name returns the manifest section name for the dependency type.
func (d DependencyType) Name() string {
	if d.pypi {
		return "pypi-dependencies"
	}
	return d.kind.Name()
}

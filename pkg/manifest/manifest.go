// Package manifest parses marmot.toml files into the feature/target tree
// that the rest of the tool resolves against.
//
// A manifest has one implicit "default" feature whose sections live at the
// top level of the file, optional platform overrides under [target.<p>.*],
// and optional named features under [feature.<name>.*]. Declaration order of
// dependency and task tables is preserved so that resolved listings stay
// stable across runs.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/marmot-dev/marmot/pkg/ordmap"
	"github.com/marmot-dev/marmot/pkg/platform"
	"github.com/marmot-dev/marmot/pkg/task"
)

// Filename is the fixed, case-sensitive name that identifies a project root.
const Filename = "marmot.toml"

// DefaultFeatureName names the implicit feature built from the manifest's
// top-level sections.
const DefaultFeatureName = "default"

// Metadata is the parsed [project] table.
type Metadata struct {
	Name        string
	Version     *semver.Version
	Description string
	Channels    []string
	Platforms   []platform.Platform
}

// Manifest is the parsed project description plus the raw source text it
// was loaded from. It is immutable after Parse; Save writes the raw text
// back for round-trip fidelity.
type Manifest struct {
	path     string
	contents string
	meta     Metadata
	features map[string]*Feature
}

type rawProject struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description"`
	Channels    []string `toml:"channels"`
	Platforms   []string `toml:"platforms"`
}

type rawTarget struct {
	Dependencies       map[string]string     `toml:"dependencies"`
	HostDependencies   map[string]string     `toml:"host-dependencies"`
	BuildDependencies  map[string]string     `toml:"build-dependencies"`
	PyPiDependencies   map[string]string     `toml:"pypi-dependencies"`
	Activation         *Activation           `toml:"activation"`
	Tasks              map[string]*task.Task `toml:"tasks"`
	SystemRequirements *SystemRequirements   `toml:"system-requirements"`
}

type rawFeature struct {
	rawTarget
	Target map[string]rawTarget `toml:"target"`
}

type rawManifest struct {
	rawTarget
	Project rawProject            `toml:"project"`
	Target  map[string]rawTarget  `toml:"target"`
	Feature map[string]rawFeature `toml:"feature"`
}

// Parse decodes manifest text. The path is recorded for Save and error
// reporting; pass "" for in-memory manifests.
func Parse(path, contents string) (*Manifest, error) {
	var raw rawManifest
	md, err := toml.Decode(contents, &raw)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	meta, err := parseMetadata(raw.Project)
	if err != nil {
		return nil, err
	}

	features := make(map[string]*Feature)

	def, err := buildFeature(md, DefaultFeatureName, raw.rawTarget, raw.Target)
	if err != nil {
		return nil, err
	}
	features[DefaultFeatureName] = def

	for name, rf := range raw.Feature {
		if name == DefaultFeatureName {
			return nil, fmt.Errorf("feature name %q is reserved", DefaultFeatureName)
		}
		f, err := buildFeature(md, name, rf.rawTarget, rf.Target, "feature", name)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", name, err)
		}
		features[name] = f
	}

	return &Manifest{
		path:     path,
		contents: contents,
		meta:     meta,
		features: features,
	}, nil
}

func parseMetadata(raw rawProject) (Metadata, error) {
	if raw.Name == "" {
		return Metadata{}, fmt.Errorf("invalid manifest: project.name is required")
	}

	meta := Metadata{
		Name:        raw.Name,
		Description: raw.Description,
		Channels:    raw.Channels,
	}

	if raw.Version != "" {
		v, err := semver.NewVersion(raw.Version)
		if err != nil {
			return Metadata{}, fmt.Errorf("invalid manifest: project.version %q: %w", raw.Version, err)
		}
		meta.Version = v
	}

	for _, s := range raw.Platforms {
		p, err := platform.Parse(s)
		if err != nil {
			return Metadata{}, fmt.Errorf("invalid manifest: project.platforms: %w", err)
		}
		meta.Platforms = append(meta.Platforms, p)
	}
	return meta, nil
}

func buildFeature(md toml.MetaData, name string, def rawTarget, overrides map[string]rawTarget, prefix ...string) (*Feature, error) {
	defTarget, err := buildTarget(md, def, prefix...)
	if err != nil {
		return nil, err
	}

	targets := make(map[platform.Platform]*Target, len(overrides))
	for plat, rt := range overrides {
		p, err := platform.Parse(plat)
		if err != nil {
			return nil, fmt.Errorf("target table: %w", err)
		}
		t, err := buildTarget(md, rt, append(prefix, "target", plat)...)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", plat, err)
		}
		targets[p] = t
	}

	return &Feature{name: name, defaultTarget: defTarget, targets: targets}, nil
}

func buildTarget(md toml.MetaData, raw rawTarget, prefix ...string) (*Target, error) {
	t := &Target{
		dependencies: make(map[platform.SpecKind]*DependencyMap),
		activation:   raw.Activation,
		sysreq:       raw.SystemRequirements,
	}

	sections := map[platform.SpecKind]map[string]string{
		platform.Run:   raw.Dependencies,
		platform.Host:  raw.HostDependencies,
		platform.Build: raw.BuildDependencies,
	}
	for _, kind := range platform.SpecKinds {
		section := sections[kind]
		if len(section) == 0 {
			continue
		}
		m := ordmap.New[string, string]()
		for _, name := range keysUnder(md, append(prefix, kind.Name())...) {
			if spec, ok := section[name]; ok {
				normalized := NormalizeName(name)
				if err := ValidatePackageName(normalized); err != nil {
					return nil, fmt.Errorf("%s: %w", kind.Name(), err)
				}
				m.Set(normalized, spec)
			}
		}
		t.dependencies[kind] = m
	}

	if len(raw.PyPiDependencies) > 0 {
		m := ordmap.New[string, string]()
		for _, name := range keysUnder(md, append(prefix, platform.PyPiDependency.Name())...) {
			if spec, ok := raw.PyPiDependencies[name]; ok {
				normalized := NormalizePyPiName(name)
				if err := ValidatePyPiName(normalized); err != nil {
					return nil, fmt.Errorf("%s: %w", platform.PyPiDependency.Name(), err)
				}
				m.Set(normalized, spec)
			}
		}
		t.pypi = m
	}

	if len(raw.Tasks) > 0 {
		m := ordmap.New[string, *task.Task]()
		for _, name := range keysUnder(md, append(prefix, "tasks")...) {
			if tk, ok := raw.Tasks[name]; ok {
				m.Set(name, tk)
			}
		}
		t.tasks = m
	}

	return t, nil
}

// keysUnder returns the immediate child keys of the given table in document
// order. toml.MetaData reports keys in the order they appear in the source,
// which is what keeps dependency listings stable.
func keysUnder(md toml.MetaData, prefix ...string) []string {
	var out []string
	for _, key := range md.Keys() {
		if len(key) != len(prefix)+1 {
			continue
		}
		match := true
		for i, p := range prefix {
			if key[i] != p {
				match = false
				break
			}
		}
		if match {
			out = append(out, key[len(prefix)])
		}
	}
	return out
}

// NormalizeName normalizes a conda package name for map-key purposes.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizePyPiName normalizes a PyPI package name following PEP 503:
// lowercase, with runs of ".", "-" and "_" collapsed to a single hyphen.
func NormalizePyPiName(name string) string {
	var b strings.Builder
	prevSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == '.' || r == '-' || r == '_' {
			prevSep = true
			continue
		}
		if prevSep && b.Len() > 0 {
			b.WriteByte('-')
		}
		prevSep = false
		b.WriteRune(r)
	}
	return b.String()
}

// Path returns the file the manifest was loaded from ("" for in-memory).
func (m *Manifest) Path() string { return m.path }

// Contents returns the raw manifest text, used for error reporting and
// round-trip saves.
func (m *Manifest) Contents() string { return m.contents }

// Metadata returns the parsed [project] table.
func (m *Manifest) Metadata() Metadata { return m.meta }

// DefaultFeature returns the feature built from the manifest's top-level
// sections. Every manifest has one.
func (m *Manifest) DefaultFeature() *Feature {
	return m.features[DefaultFeatureName]
}

// Feature looks up a feature by name.
func (m *Manifest) Feature(name string) (*Feature, bool) {
	f, ok := m.features[name]
	return f, ok
}

// FeatureNames returns the declared feature names, default included.
func (m *Manifest) FeatureNames() []string {
	out := make([]string, 0, len(m.features))
	for name := range m.features {
		out = append(out, name)
	}
	return out
}

// Tasks resolves the effective task table of the default feature for the
// given platform using override semantics: the most specific target's
// definition of a name fully replaces less specific ones, dependency list
// included. Pass nil to resolve only the default target.
func (m *Manifest) Tasks(p *platform.Platform) map[string]*task.Task {
	out := make(map[string]*task.Task)
	for _, target := range m.DefaultFeature().Resolve(p) {
		target.Tasks().Each(func(name string, tk *task.Task) {
			if _, ok := out[name]; !ok {
				out[name] = tk
			}
		})
	}
	return out
}

// HasPyPiDependencies reports whether any target of any feature declares
// PyPI dependencies.
func (m *Manifest) HasPyPiDependencies() bool {
	for _, f := range m.features {
		if f.defaultTarget.PyPiDependencies().Len() > 0 {
			return true
		}
		for _, t := range f.targets {
			if t.PyPiDependencies().Len() > 0 {
				return true
			}
		}
	}
	return false
}

// Save writes the raw manifest text back to the path it was loaded from.
// In-memory state is unchanged; failures are returned to the caller.
func (m *Manifest) Save() error {
	if m.path == "" {
		return fmt.Errorf("manifest has no backing file")
	}
	if err := os.WriteFile(m.path, []byte(m.contents), 0o644); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

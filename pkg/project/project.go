// Package project is the façade over a loaded manifest: it locates and
// loads marmot.toml, answers dependency, task, activation and system
// requirement queries for a target platform, and owns the lazily created
// PyPI package database handle.
//
// All query methods are pure read-only traversals over the immutable
// manifest and are safe for concurrent use once the Project is constructed,
// as long as Save is externally synchronized.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/marmot-dev/marmot/pkg/index"
	"github.com/marmot-dev/marmot/pkg/manifest"
	"github.com/marmot-dev/marmot/pkg/platform"
)

// Fixed on-disk names computed relative to the project root. The tool only
// computes these paths; it never creates the directories here.
const (
	LockFilename = "marmot.lock"
	StateDirName = ".marmot"
	EnvsDirName  = "envs"
)

// Project wraps a manifest and the root directory it was loaded from.
type Project struct {
	root     string
	manifest *manifest.Manifest
	logger   *log.Logger

	// The package database is created at most once and shared by all
	// accessors. A failed initialization is not cached; a later call
	// retries.
	dbMu sync.Mutex
	db   *index.PackageDB
}

// FromManifest wraps an in-memory manifest. The root is taken from the
// manifest path when it has one.
func FromManifest(m *manifest.Manifest) *Project {
	root := ""
	if m.Path() != "" {
		root = filepath.Dir(m.Path())
	}
	return &Project{root: root, manifest: m, logger: log.Default()}
}

// Discover walks from the current working directory upward through parent
// directories (inclusive) and loads the first marmot.toml it finds.
func Discover() (*Project, error) {
	root, ok := FindProjectRoot()
	if !ok {
		return nil, fmt.Errorf("could not find %s in the current directory or any parent", manifest.Filename)
	}
	return Load(filepath.Join(root, manifest.Filename))
}

// Load reads and parses the manifest at the given path. The path must point
// at a file named marmot.toml; its directory becomes the project root.
func Load(path string) (*Project, error) {
	full, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(full); err == nil {
		full = resolved
	}
	if filepath.Base(full) != manifest.Filename {
		return nil, fmt.Errorf("the manifest path must point to a %s file, got %s", manifest.Filename, full)
	}

	contents, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", full, err)
	}

	root := filepath.Dir(full)
	m, err := manifest.Parse(full, string(contents))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s from %s: %w", manifest.Filename, root, err)
	}

	return &Project{root: root, manifest: m, logger: log.Default()}, nil
}

// LoadOrDiscover loads the manifest at path, or discovers one from the
// current directory when path is empty.
func LoadOrDiscover(path string) (*Project, error) {
	if path != "" {
		return Load(path)
	}
	return Discover()
}

// FindProjectRoot returns the first directory, walking up from the current
// working directory, that contains a marmot.toml.
func FindProjectRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, manifest.Filename)); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// SetLogger replaces the logger used for non-fatal diagnostics such as
// missing activation scripts.
func (p *Project) SetLogger(l *log.Logger) {
	if l != nil {
		p.logger = l
	}
}

// Manifest returns the underlying manifest.
func (p *Project) Manifest() *manifest.Manifest { return p.manifest }

// Name returns the project name.
func (p *Project) Name() string { return p.manifest.Metadata().Name }

// Version returns the project version, nil if undeclared.
func (p *Project) Version() fmt.Stringer {
	v := p.manifest.Metadata().Version
	if v == nil {
		return nil
	}
	return v
}

// Description returns the project description.
func (p *Project) Description() string { return p.manifest.Metadata().Description }

// Channels returns the package channels the project pulls from.
func (p *Project) Channels() []string { return p.manifest.Metadata().Channels }

// Platforms returns the closed set of platforms the project claims to
// support. Resolving for a platform outside this set is a caller-level
// validation concern, not an error here.
func (p *Project) Platforms() []platform.Platform { return p.manifest.Metadata().Platforms }

// Root returns the project root directory.
func (p *Project) Root() string { return p.root }

// ManifestPath returns the path of the manifest file.
func (p *Project) ManifestPath() string { return p.manifest.Path() }

// LockFilePath returns the path of the project's lock file.
func (p *Project) LockFilePath() string { return filepath.Join(p.root, LockFilename) }

// StateDir returns the tool-managed state directory under the root.
func (p *Project) StateDir() string { return filepath.Join(p.root, StateDirName) }

// EnvironmentDir returns the environment directory under the state dir.
func (p *Project) EnvironmentDir() string { return filepath.Join(p.StateDir(), EnvsDirName) }

// Save writes the manifest back to the path it was loaded from. In-memory
// state is left unchanged on failure.
func (p *Project) Save() error {
	return p.manifest.Save()
}

package project

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/marmot-dev/marmot/pkg/manifest"
	"github.com/marmot-dev/marmot/pkg/platform"
)

const boilerplate = `
[project]
name = "foo"
version = "0.1.0"
channels = []
platforms = ["linux-64", "win-64"]
`

func fromString(t *testing.T, body string) *Project {
	t.Helper()
	m, err := manifest.Parse("", boilerplate+body)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	return FromManifest(m)
}

func formatDeps(m *manifest.DependencyMap) []string {
	var out []string
	m.Each(func(name, spec string) {
		out = append(out, fmt.Sprintf("%s=%s", name, spec))
	})
	return out
}

func TestDependencySets(t *testing.T) {
	p := fromString(t, `
[dependencies]
foo = "1.0"

[host-dependencies]
libc = "2.12"

[build-dependencies]
bar = "1.0"
`)
	got := formatDeps(p.AllDependencies(platform.Linux64))
	want := []string{"foo=1.0", "libc=2.12", "bar=1.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllDependencies = %v, want %v", got, want)
	}
}

func TestDependencyTargetSets(t *testing.T) {
	p := fromString(t, `
[dependencies]
foo = "1.0"

[host-dependencies]
libc = "2.12"

[build-dependencies]
bar = "1.0"

[target.linux-64.build-dependencies]
baz = "1.0"

[target.linux-64.host-dependencies]
banksy = "1.0"

[target.linux-64.dependencies]
wolflib = "1.0"
`)

	// Six distinct entries: each kind's override-added package is appended
	// after that kind's pre-existing ones, and kinds merge run, host, build.
	got := formatDeps(p.AllDependencies(platform.Linux64))
	want := []string{
		"foo=1.0", "wolflib=1.0",
		"libc=2.12", "banksy=1.0",
		"bar=1.0", "baz=1.0",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllDependencies = %v, want %v", got, want)
	}
}

func TestPositionStability(t *testing.T) {
	p := fromString(t, `
[dependencies]
foo = "1.0"
bar = "2.0"

[target.linux-64.dependencies]
foo = "9.0"
`)
	deps := p.Dependencies(platform.Linux64, platform.Run)

	// The override changes foo's constraint but not its position.
	if got := deps.Keys(); !reflect.DeepEqual(got, []string{"foo", "bar"}) {
		t.Errorf("Keys = %v, want [foo bar]", got)
	}
	if v, _ := deps.Get("foo"); v != "9.0" {
		t.Errorf("foo = %q, want 9.0", v)
	}
}

func TestKindPrecedence(t *testing.T) {
	p := fromString(t, `
[dependencies]
foo = "1.0"

[target.linux-64.host-dependencies]
foo = "2.0"
`)
	all := p.AllDependencies(platform.Linux64)
	if all.Len() != 1 {
		t.Fatalf("Len = %d, want 1", all.Len())
	}
	// Host merges after run, so the host constraint survives.
	if v, _ := all.Get("foo"); v != "2.0" {
		t.Errorf("foo = %q, want the host-kind constraint 2.0", v)
	}
}

func TestNoOverrideFallback(t *testing.T) {
	p := fromString(t, `
[dependencies]
zlib = "1.2"
foo = "1.0"

[target.linux-64.dependencies]
extra = "1.0"
`)
	// win-64 has no override target: result must equal the default map
	// exactly, same keys, same order, same values.
	got := formatDeps(p.Dependencies(platform.Win64, platform.Run))
	want := formatDeps(p.manifest.DefaultFeature().DefaultTarget().Dependencies(platform.Run))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("win-64 deps = %v, want default map %v", got, want)
	}
}

func TestAllDependenciesIdempotent(t *testing.T) {
	p := fromString(t, `
[dependencies]
foo = "1.0"

[target.linux-64.dependencies]
bar = "2.0"
`)
	first := formatDeps(p.AllDependencies(platform.Linux64))
	second := formatDeps(p.AllDependencies(platform.Linux64))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolution not idempotent: %v vs %v", first, second)
	}
}

func TestPyPiDependencies(t *testing.T) {
	p := fromString(t, `
[dependencies]
numpy = "1.26"

[pypi-dependencies]
requests = ">=2"

[target.linux-64.pypi-dependencies]
requests = ">=2.31"
uvloop = "*"
`)
	got := formatDeps(p.PyPiDependencies(platform.Linux64))
	want := []string{"requests=>=2.31", "uvloop=*"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PyPiDependencies = %v, want %v", got, want)
	}

	// PyPI requirements never leak into the conda dependency sets.
	if p.AllDependencies(platform.Linux64).Has("requests") {
		t.Error("pypi dependency merged into conda dependencies")
	}
	if !p.HasPyPiDependencies() {
		t.Error("HasPyPiDependencies() = false")
	}
}

func TestTaskQueries(t *testing.T) {
	p := fromString(t, `
[tasks.build]
cmd = "make"

[tasks.test]
cmd = "pytest"
depends_on = ["build"]

[tasks.lint]
cmd = "ruff check"
depends_on = ["build"]
`)
	lin := platform.Linux64

	if got := p.TaskNames(&lin); !reflect.DeepEqual(got, []string{"build", "lint", "test"}) {
		t.Errorf("TaskNames = %v", got)
	}
	if tk := p.TaskOpt("test", &lin); tk == nil || tk.Cmd != "pytest" {
		t.Errorf("TaskOpt(test) = %v", tk)
	}
	if tk := p.TaskOpt("missing", &lin); tk != nil {
		t.Errorf("TaskOpt(missing) = %v, want nil", tk)
	}

	// Reverse lookup resolves against the host platform; these tasks are
	// declared on the default target so they exist everywhere.
	got := p.TaskNamesDependingOn("build")
	if !reflect.DeepEqual(got, []string{"lint", "test"}) {
		t.Errorf("TaskNamesDependingOn(build) = %v", got)
	}
	for _, name := range got {
		if name == "build" {
			t.Error("reverse lookup must not include the task itself")
		}
	}

	// Unknown tasks are a no-op, not an error.
	if got := p.TaskNamesDependingOn("nope"); len(got) != 0 {
		t.Errorf("TaskNamesDependingOn(nope) = %v, want empty", got)
	}
}

func writeProject(t *testing.T, contents string) *Project {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, manifest.Filename)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p
}

func TestActivationScriptsNoMerge(t *testing.T) {
	p := writeProject(t, boilerplate+`
[activation]
scripts = ["default-a.sh", "default-b.sh"]

[target.linux-64.activation]
scripts = ["linux.sh"]
`)
	for _, name := range []string{"default-a.sh", "default-b.sh", "linux.sh"} {
		if err := os.WriteFile(filepath.Join(p.Root(), name), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	// The platform block wins outright; default scripts are not appended.
	got, err := p.ActivationScripts(platform.Linux64)
	if err != nil {
		t.Fatalf("ActivationScripts: %v", err)
	}
	want := []string{filepath.Join(p.Root(), "linux.sh")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("linux scripts = %v, want %v", got, want)
	}

	// A platform without an override falls back to the default block.
	got, err = p.ActivationScripts(platform.Win64)
	if err != nil {
		t.Fatalf("ActivationScripts: %v", err)
	}
	want = []string{
		filepath.Join(p.Root(), "default-a.sh"),
		filepath.Join(p.Root(), "default-b.sh"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("win scripts = %v, want %v", got, want)
	}
}

func TestActivationScriptsMissingDropped(t *testing.T) {
	p := writeProject(t, boilerplate+`
[activation]
scripts = ["exists.sh", "missing.sh"]
`)
	if err := os.WriteFile(filepath.Join(p.Root(), "exists.sh"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	// The missing script is dropped with a warning; resolution succeeds.
	got, err := p.ActivationScripts(platform.Linux64)
	if err != nil {
		t.Fatalf("ActivationScripts: %v", err)
	}
	want := []string{filepath.Join(p.Root(), "exists.sh")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("scripts = %v, want %v", got, want)
	}
}

func TestVirtualPackagesForPlatform(t *testing.T) {
	p := fromString(t, `
[system-requirements]
libc = "2.12"
linux = "5.10"
cuda = "12.0"
`)

	names := func(plat platform.Platform) []string {
		var out []string
		for _, vp := range p.VirtualPackagesForPlatform(plat) {
			out = append(out, vp.Name)
		}
		return out
	}

	if got := names(platform.Linux64); !reflect.DeepEqual(got, []string{"__linux", "__glibc", "__cuda"}) {
		t.Errorf("linux-64 virtual packages = %v", got)
	}
	// libc and kernel requirements are irrelevant on windows.
	if got := names(platform.Win64); !reflect.DeepEqual(got, []string{"__cuda"}) {
		t.Errorf("win-64 virtual packages = %v", got)
	}
}

func TestLoadValidation(t *testing.T) {
	dir := t.TempDir()

	wrongName := filepath.Join(dir, "pixie.toml")
	if err := os.WriteFile(wrongName, []byte(boilerplate), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(wrongName); err == nil || !strings.Contains(err.Error(), manifest.Filename) {
		t.Errorf("Load(wrong name) = %v, want filename error", err)
	}

	if _, err := Load(filepath.Join(dir, manifest.Filename)); err == nil {
		t.Error("Load(missing file) should fail")
	}

	broken := filepath.Join(dir, manifest.Filename)
	if err := os.WriteFile(broken, []byte("[project\nname"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(broken)
	if err == nil {
		t.Fatal("Load(broken manifest) should fail")
	}
	// Parse failures carry the manifest location for diagnostics.
	if !strings.Contains(err.Error(), manifest.Filename) {
		t.Errorf("parse error %q does not mention the manifest", err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, manifest.Filename), []byte(boilerplate), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	chdir(t, nested)
	p, err := Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// Temp dirs may sit behind symlinks on some systems.
	wantRoot, _ := filepath.EvalSymlinks(root)
	if p.Root() != wantRoot {
		t.Errorf("Root = %q, want %q", p.Root(), wantRoot)
	}

	empty := t.TempDir()
	chdir(t, empty)
	if _, err := Discover(); err == nil {
		t.Error("Discover in an empty tree should fail")
	}
}

func TestProjectPaths(t *testing.T) {
	p := writeProject(t, boilerplate)
	root := p.Root()

	if got := p.LockFilePath(); got != filepath.Join(root, "marmot.lock") {
		t.Errorf("LockFilePath = %q", got)
	}
	if got := p.StateDir(); got != filepath.Join(root, ".marmot") {
		t.Errorf("StateDir = %q", got)
	}
	if got := p.EnvironmentDir(); got != filepath.Join(root, ".marmot", "envs") {
		t.Errorf("EnvironmentDir = %q", got)
	}
	if got := p.ManifestPath(); got != filepath.Join(root, manifest.Filename) {
		t.Errorf("ManifestPath = %q", got)
	}
}

func TestMetadataAccessors(t *testing.T) {
	p := fromString(t, `
[pypi-dependencies]
requests = ">=2"
`)
	if p.Name() != "foo" {
		t.Errorf("Name = %q", p.Name())
	}
	if p.Version() == nil || p.Version().String() != "0.1.0" {
		t.Errorf("Version = %v", p.Version())
	}
	want := []platform.Platform{platform.Linux64, platform.Win64}
	if !reflect.DeepEqual(p.Platforms(), want) {
		t.Errorf("Platforms = %v", p.Platforms())
	}
}

func TestPyPiPackageDBShared(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	p := fromString(t, "")
	first, err := p.PyPiPackageDB()
	if err != nil {
		t.Fatalf("PyPiPackageDB: %v", err)
	}
	second, err := p.PyPiPackageDB()
	if err != nil {
		t.Fatalf("PyPiPackageDB (second): %v", err)
	}
	if first != second {
		t.Error("package database handle not shared between calls")
	}
	if got := first.IndexURLs(); !reflect.DeepEqual(got, []string{"https://pypi.org/simple/"}) {
		t.Errorf("IndexURLs = %v", got)
	}
}

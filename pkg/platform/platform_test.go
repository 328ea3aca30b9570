package platform

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Platform
		wantErr bool
	}{
		{name: "linux", input: "linux-64", want: Linux64},
		{name: "osx arm", input: "osx-arm64", want: OsxArm64},
		{name: "windows", input: "win-64", want: Win64},
		{name: "unknown", input: "plan9-386", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "case sensitive", input: "Linux-64", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, p := range All {
		got, err := Parse(p.String())
		if err != nil {
			t.Errorf("Parse(%q) error: %v", p, err)
		}
		if got != p {
			t.Errorf("Parse(%q) = %v, want %v", p, got, p)
		}
	}
}

func TestOSPredicates(t *testing.T) {
	if !Linux64.IsLinux() || Linux64.IsOsx() || Linux64.IsWindows() {
		t.Error("linux-64 should only be linux")
	}
	if !OsxArm64.IsOsx() || OsxArm64.IsLinux() {
		t.Error("osx-arm64 should only be osx")
	}
	if !Win64.IsWindows() || Win64.IsLinux() {
		t.Error("win-64 should only be windows")
	}
}

func TestCurrentIsSupported(t *testing.T) {
	if _, err := Parse(Current().String()); err != nil {
		t.Errorf("Current() = %v is not in the supported set", Current())
	}
}

func TestSpecKindNames(t *testing.T) {
	if Run.Name() != "dependencies" {
		t.Errorf("Run.Name() = %q", Run.Name())
	}
	if Host.Name() != "host-dependencies" {
		t.Errorf("Host.Name() = %q", Host.Name())
	}
	if Build.Name() != "build-dependencies" {
		t.Errorf("Build.Name() = %q", Build.Name())
	}
	if PyPiDependency.Name() != "pypi-dependencies" {
		t.Errorf("PyPiDependency.Name() = %q", PyPiDependency.Name())
	}
	if CondaDependency(Build).Name() != "build-dependencies" {
		t.Errorf("CondaDependency(Build).Name() = %q", CondaDependency(Build).Name())
	}
}

package task

import (
	"reflect"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestUnmarshalString(t *testing.T) {
	var doc struct {
		Tasks map[string]Task `toml:"tasks"`
	}
	src := `
[tasks]
build = "cargo build"
`
	if _, err := toml.Decode(src, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := doc.Tasks["build"]
	if got.Cmd != "cargo build" {
		t.Errorf("Cmd = %q, want %q", got.Cmd, "cargo build")
	}
	if got.DependsOn != nil {
		t.Errorf("DependsOn = %v, want nil", got.DependsOn)
	}
}

func TestUnmarshalTable(t *testing.T) {
	var doc struct {
		Tasks map[string]Task `toml:"tasks"`
	}
	src := `
[tasks.test]
cmd = "pytest"
depends_on = ["build", "lint"]

[tasks.all]
depends_on = ["test"]
`
	if _, err := toml.Decode(src, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	test := doc.Tasks["test"]
	if test.Cmd != "pytest" {
		t.Errorf("Cmd = %q", test.Cmd)
	}
	if !reflect.DeepEqual(test.DependsOn, []string{"build", "lint"}) {
		t.Errorf("DependsOn = %v", test.DependsOn)
	}

	all := doc.Tasks["all"]
	if all.Cmd != "" || !reflect.DeepEqual(all.DependsOn, []string{"test"}) {
		t.Errorf("alias task = %+v", all)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "numeric task", src: "[tasks]\nbuild = 42\n"},
		{name: "numeric depends_on entry", src: "[tasks.t]\ncmd = \"x\"\ndepends_on = [1]\n"},
		{name: "empty table", src: "[tasks.t]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				Tasks map[string]Task `toml:"tasks"`
			}
			if _, err := toml.Decode(tt.src, &doc); err == nil {
				t.Errorf("decode succeeded, want error")
			}
		})
	}
}

func TestDepends(t *testing.T) {
	tk := Task{Cmd: "x", DependsOn: []string{"a", "b"}}
	if !tk.Depends("a") || tk.Depends("c") {
		t.Errorf("Depends misreported for %+v", tk)
	}
}

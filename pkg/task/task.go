// Package task defines the task entries of a marmot manifest.
//
// A task is declared either as a plain command string:
//
//	[tasks]
//	build = "cargo build"
//
// or as a table with an explicit dependency list:
//
//	[tasks.test]
//	cmd = "pytest"
//	depends_on = ["build"]
package task

import (
	"fmt"
	"strings"
)

// Task is one runnable entry of the manifest's task table.
type Task struct {
	Cmd       string   // shell command to execute
	DependsOn []string // names of tasks that must run first
}

// UnmarshalTOML decodes both the shorthand string form and the table form.
func (t *Task) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		t.Cmd = v
		return nil
	case map[string]any:
		if cmd, ok := v["cmd"]; ok {
			s, ok := cmd.(string)
			if !ok {
				return fmt.Errorf("task cmd must be a string, got %T", cmd)
			}
			t.Cmd = s
		}
		if deps, ok := v["depends_on"]; ok {
			list, ok := deps.([]any)
			if !ok {
				return fmt.Errorf("task depends_on must be an array, got %T", deps)
			}
			for _, d := range list {
				s, ok := d.(string)
				if !ok {
					return fmt.Errorf("task depends_on entries must be strings, got %T", d)
				}
				t.DependsOn = append(t.DependsOn, s)
			}
		}
		if t.Cmd == "" && len(t.DependsOn) == 0 {
			return fmt.Errorf("task must define cmd or depends_on")
		}
		return nil
	default:
		return fmt.Errorf("task must be a string or a table, got %T", data)
	}
}

// Depends reports whether the task lists name in depends_on.
func (t *Task) Depends(name string) bool {
	for _, d := range t.DependsOn {
		if d == name {
			return true
		}
	}
	return false
}

// String returns a short human-readable form for listings.
func (t *Task) String() string {
	if len(t.DependsOn) == 0 {
		return t.Cmd
	}
	if t.Cmd == "" {
		return fmt.Sprintf("[%s]", strings.Join(t.DependsOn, ", "))
	}
	return fmt.Sprintf("%s (after %s)", t.Cmd, strings.Join(t.DependsOn, ", "))
}

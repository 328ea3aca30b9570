package manifest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds package names; anything longer is junk input.
const maxNameLength = 256

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection, since
// package names end up in cache paths and registry URLs.
func ValidatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("package name cannot be empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("package name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("package name %q contains control characters", name)
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return fmt.Errorf("package name %q contains invalid sequence %q", name, pattern)
		}
	}
	return nil
}

// pypiNameRE matches normalized PyPI package names (PEP 503 form).
var pypiNameRE = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidatePyPiName validates a PEP 503 normalized PyPI package name.
func ValidatePyPiName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}
	if !pypiNameRE.MatchString(name) {
		return fmt.Errorf("invalid PyPI package name: %q", name)
	}
	return nil
}

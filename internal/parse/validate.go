// Package parse provides validation utilities for wakekeeper CLI flags.
package parse

import (
	"fmt"
	"strings"
)

// ValidateSelection enforces that at most one process selector is in use.
// Returns an error when both a process name and a process ID are given.
func ValidateSelection(processName string, processID int32) error {
	if processName != "" && processID != 0 {
		return fmt.Errorf("only one of process name or process ID can be used, re-run using one or the other")
	}
	return nil
}

// ValidatePID validates the --pid flag value.
// Returns an error if the value is negative. Zero means unset.
func ValidatePID(pid int32) error {
	if pid < 0 {
		return fmt.Errorf("invalid --pid: must be > 0")
	}
	return nil
}

// ValidateParallel validates the --parallel flag value.
// Returns an error if the value is less than 1.
func ValidateParallel(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid --parallel: must be >= 1")
	}
	return nil
}

// ValidateAgeKey validates the --encrypt-age flag value.
// Returns whether the value is set and any validation error.
// Set is true only if non-empty and starts with "age1".
func ValidateAgeKey(s string) (set bool, err error) {
	if s == "" {
		return false, nil
	}

	if !strings.HasPrefix(s, "age1") {
		return false, fmt.Errorf("invalid --encrypt-age: must start with age1")
	}

	return true, nil
}

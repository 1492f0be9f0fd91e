package pipeline

import (
	"fmt"
	"strings"
)

// FailurePolicy decides what happens after a stage fails.
type FailurePolicy int

const (
	// ContinueOnFailure runs every remaining stage and still ships the order at the end.
	ContinueOnFailure FailurePolicy = iota

	// HaltOnFailure stops at the first failed stage and leaves the order unshipped.
	HaltOnFailure
)

// ParseFailurePolicy accepts "continue" and "halt", case-insensitively.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continue":
		return ContinueOnFailure, nil
	case "halt":
		return HaltOnFailure, nil
	default:
		return ContinueOnFailure, fmt.Errorf("unknown failure policy %q", s)
	}
}

func (p FailurePolicy) String() string {
	if p == HaltOnFailure {
		return "halt"
	}
	return "continue"
}

// Halts reports whether the pipeline stops after a failed stage.
func (p FailurePolicy) Halts() bool {
	return p == HaltOnFailure
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package orchestrator

import "fmt"

// Policy decides how a failure affects the rest of the chain.
type Policy string

const (
	// PolicyLenient skips the descendants of a failed project and keeps
	// building everything else.
	PolicyLenient Policy = "lenient"
	// PolicyStrict stops starting new steps after the first failure.
	PolicyStrict Policy = "strict"
)

// ParsePolicy converts a user supplied name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyLenient, PolicyStrict:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown policy %q: must be lenient or strict", s)
}

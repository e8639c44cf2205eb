// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "fmt"

// Flow selects which direction(s) of the dependency graph a run includes.
type Flow string

const (
	// FlowSingle builds only the trigger project.
	FlowSingle Flow = "single"
	// FlowUpstream builds the trigger and everything it depends on.
	FlowUpstream Flow = "upstream"
	// FlowDownstream builds the trigger and everything that depends on it.
	FlowDownstream Flow = "downstream"
	// FlowFull is the union of upstream and downstream.
	FlowFull Flow = "full"
)

// Flows lists every supported flow mode in display order.
var Flows = []Flow{FlowSingle, FlowUpstream, FlowDownstream, FlowFull}

// ParseFlow converts a user supplied name into a Flow.
func ParseFlow(s string) (Flow, error) {
	for _, f := range Flows {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown flow %q: must be one of single, upstream, downstream, full", s)
}

// IncludesUpstream reports whether the flow follows parent edges.
func (f Flow) IncludesUpstream() bool {
	return f == FlowUpstream || f == FlowFull
}

// IncludesDownstream reports whether the flow follows child edges.
func (f Flow) IncludesDownstream() bool {
	return f == FlowDownstream || f == FlowFull
}

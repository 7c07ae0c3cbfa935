// Package taintmodel holds the value types shared by every analysis stage:
// locations, sources, sinks, constraints, the taint lattice, data-flow
// paths, and the issues/results reported to callers. Nothing in this
// package has behavior beyond small, pure helpers — the packages under
// internal/ operate on these types, mirroring the split the teacher draws
// between its graph/callgraph/core data types and the analyzers that walk
// them.
package taintmodel

import "fmt"

// Location identifies a position in a source file. Line and Column are
// 1-based, matching editor conventions and the JSON/SARIF output formats.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Length int    `json:"length,omitempty"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Before reports whether l occurs at or before other in textual order
// within the same file.
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column <= other.Column
}

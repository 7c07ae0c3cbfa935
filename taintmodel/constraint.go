package taintmodel

// ConstraintKind distinguishes the relationship a TypeConstraint records.
type ConstraintKind string

const (
	ConstraintAssignment    ConstraintKind = "assignment"
	ConstraintParameter     ConstraintKind = "parameter"
	ConstraintReturn        ConstraintKind = "return"
	ConstraintPropertyAccess ConstraintKind = "property-access"
	ConstraintMethodCall    ConstraintKind = "method-call"
)

// TypeConstraint is a recorded data-flow relationship between two program
// names, emitted by the Constraint Extractor and consumed by the Data-Flow
// Tracer and the Constraint Solver. Source and target are symbol-normalized
// names; for property-access constraints Source is the base object and
// Target is the full dotted expression; parameter constraints may
// synthesize targets of the form "F[paramN]".
type TypeConstraint struct {
	Kind           ConstraintKind `json:"kind"`
	SourceVariable string         `json:"source_variable"`
	TargetVariable string         `json:"target_variable"`
	Location       Location       `json:"location"`
	Description    string         `json:"description"`
}

// TypeBasedTaintInfo is the per-variable record the extractor builds and
// the solver mutates. SourceInfo is an index into the file's source slice,
// not an owning pointer, so it is safely discarded with the rest of the
// file's TaintInfo map once analysis completes.
type TypeBasedTaintInfo struct {
	Variable      string
	TaintStatus   Taint
	SourceInfoIdx int // -1 when not source-derived
	Annotation    *Annotation
	Constraints   []TypeConstraint
}

// ConstraintVariable is the solver's view of a name: its allowed domain,
// its current value (if any), and a priority used to order and weight
// inference.
type ConstraintVariable struct {
	Name     string
	Domain   []Taint
	Value    *Taint
	Priority int
}

// InDomain reports whether t is a legal value for this variable.
func (v *ConstraintVariable) InDomain(t Taint) bool {
	for _, d := range v.Domain {
		if d == t {
			return true
		}
	}
	return false
}

// ConstraintRule is a named propagation or violation check the solver
// evaluates every fixpoint pass. Predicate receives the current value of
// every variable named in Variables (only variables with an assigned value
// are present) and reports whether the rule's invariant holds.
type ConstraintRule struct {
	ID        string
	Kind      string // "source", "assignment", "parameter", "sanitization", "sink"
	Variables []string
	Predicate func(values map[string]Taint) bool
	Priority  int
}

// InferenceStep records one propagation the solver performed, for
// diagnostics and for the Annotation Inferrer's reasoning text.
type InferenceStep struct {
	Step      int
	Rule      string
	Variable  string
	OldValue  *Taint
	NewValue  Taint
	Reasoning string
}

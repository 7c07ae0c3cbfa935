package taintmodel

// Taint is the four-valued lattice every variable is classified into.
// Propagation defaults treat Tainted as dominating, but the solver never
// relies on a single total order — risk scoring and rule predicates each
// interpret the lattice explicitly (see internal/solver).
type Taint string

const (
	Tainted   Taint = "tainted"
	Untainted Taint = "untainted"
	Sanitized Taint = "sanitized"
	Unknown   Taint = "unknown"
)

// Dominates reports whether t should win when joined with other under the
// propagation-default join order untainted < sanitized < unknown < tainted.
// Rules that need different semantics (e.g. "never lower a set value") do
// not use this helper — it exists only for the default join.
func (t Taint) Dominates(other Taint) bool {
	rank := map[Taint]int{Untainted: 0, Sanitized: 1, Unknown: 2, Tainted: 3}
	return rank[t] >= rank[other]
}

// Annotation records an explicit, user-authored taint qualifier attached to
// a variable via JSDoc or a structural TypeScript type.
type Annotation struct {
	IsTaintedAnnotation   bool
	IsUntaintedAnnotation bool
	CustomTaintType       string
}

func (a *Annotation) Value() (Taint, bool) {
	switch {
	case a == nil:
		return Unknown, false
	case a.IsTaintedAnnotation:
		return Tainted, true
	case a.IsUntaintedAnnotation:
		return Untainted, true
	default:
		return Unknown, false
	}
}

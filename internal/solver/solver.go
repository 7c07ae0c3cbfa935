// Package solver implements the Constraint Solver (spec component C6): a
// fixpoint propagation of the four-valued taint lattice over the
// constraint graph the extractor produced, recording every inference step
// and any rule violations it detects along the way.
package solver

import (
	"fmt"

	"github.com/tainthound/jsflow/internal/dataflow"
	"github.com/tainthound/jsflow/taintmodel"
)

const maxIterations = 100

// Violation is a constraint rule whose predicate failed once all of its
// variables had values.
type Violation struct {
	Rule      string
	Variables []string
}

// Solution is the result of running the fixpoint loop to completion or
// exhaustion.
type Solution struct {
	Variables  map[string]*taintmodel.ConstraintVariable
	Steps      []taintmodel.InferenceStep
	Violations []Violation
	Total      int
	Solved     int
	Tainted    int
	Untainted  int // includes sanitized, per the summary contract
	UnknownN   int
	Rules      int
}

// Succeeded reports the solver's success condition: no critical violation,
// and either a non-empty solution, no rules, at least one inference step,
// or at least one constraint variable.
func (s Solution) Succeeded() bool {
	if len(s.Violations) > 0 {
		return false
	}
	return s.Solved > 0 || s.Rules == 0 || len(s.Steps) > 0 || len(s.Variables) > 0
}

// Solve builds constraint variables from constraints, info (the extractor's
// seeded per-variable taint info, including annotations), and runs the
// fixpoint loop described by spec.md §4.6: source rule (priority 10),
// assignment rule (priority 8), parameter rule (priority 7), annotation
// rule (priority 10, highest alongside source).
func Solve(constraints []taintmodel.TypeConstraint, info map[string]*taintmodel.TypeBasedTaintInfo) Solution {
	variables := buildVariables(constraints, info)
	rules := buildRules(constraints, info)

	var steps []taintmodel.InferenceStep
	var violations []Violation

	for iteration := 0; iteration < maxIterations; iteration++ {
		progressed := false
		sortRulesByPriority(rules)

		for _, rule := range rules {
			values := currentValues(variables, rule.Variables)
			if len(values) == len(rule.Variables) {
				if !rule.Predicate(values) {
					violations = append(violations, Violation{Rule: rule.ID, Variables: rule.Variables})
				}
				continue
			}
			if inferAndPropagate(rule, variables, values, &steps, iteration) {
				progressed = true
			}
		}

		if !progressed {
			break
		}
	}

	sol := summarize(variables, steps, violations)
	sol.Rules = len(rules)
	return sol
}

func buildVariables(constraints []taintmodel.TypeConstraint, info map[string]*taintmodel.TypeBasedTaintInfo) map[string]*taintmodel.ConstraintVariable {
	vars := make(map[string]*taintmodel.ConstraintVariable)
	ensure := func(name string) *taintmodel.ConstraintVariable {
		if name == "" {
			return nil
		}
		if v, ok := vars[name]; ok {
			return v
		}
		v := &taintmodel.ConstraintVariable{
			Name:     name,
			Domain:   []taintmodel.Taint{taintmodel.Tainted, taintmodel.Untainted, taintmodel.Sanitized, taintmodel.Unknown},
			Priority: 5,
		}
		vars[name] = v
		return v
	}

	for _, c := range constraints {
		ensure(c.SourceVariable)
		ensure(c.TargetVariable)
	}
	for name, ti := range info {
		v := ensure(name)
		if v == nil {
			continue
		}
		if ti.Annotation != nil {
			if val, ok := ti.Annotation.Value(); ok {
				v.Domain = []taintmodel.Taint{val}
				v.Value = &val
				v.Priority = 10
			}
		}
		if ti.TaintStatus == taintmodel.Tainted && ti.SourceInfoIdx >= 0 {
			v.Domain = []taintmodel.Taint{taintmodel.Tainted}
			val := taintmodel.Tainted
			v.Value = &val
			v.Priority = 10
		}
	}
	return vars
}

func buildRules(constraints []taintmodel.TypeConstraint, info map[string]*taintmodel.TypeBasedTaintInfo) []taintmodel.ConstraintRule {
	var rules []taintmodel.ConstraintRule

	for name, ti := range info {
		if ti.TaintStatus == taintmodel.Tainted && ti.SourceInfoIdx >= 0 {
			n := name
			rules = append(rules, taintmodel.ConstraintRule{
				ID:        "source:" + n,
				Kind:      "source",
				Variables: []string{n},
				Priority:  10,
				Predicate: func(values map[string]taintmodel.Taint) bool { return values[n] == taintmodel.Tainted },
			})
		}
		if ti.Annotation != nil {
			if val, ok := ti.Annotation.Value(); ok {
				n, v := name, val
				rules = append(rules, taintmodel.ConstraintRule{
					ID:        "annotation:" + n,
					Kind:      "annotation",
					Variables: []string{n},
					Priority:  10,
					Predicate: func(values map[string]taintmodel.Taint) bool { return values[n] == v },
				})
			}
		}
	}

	for i, c := range constraints {
		switch c.Kind {
		case taintmodel.ConstraintAssignment, taintmodel.ConstraintPropertyAccess, taintmodel.ConstraintMethodCall:
			src, tgt := c.SourceVariable, c.TargetVariable
			sanitizing := dataflow.IsSanitizerCall(c.TargetVariable) || dataflow.IsSanitizerCall(c.Description)
			kind := "assignment"
			if sanitizing {
				// A sanitizing edge never propagates taint; its predicate
				// always holds, so the solver neither infers nor flags it.
				kind = "sanitization"
			}
			rules = append(rules, taintmodel.ConstraintRule{
				ID:        fmt.Sprintf("assignment:%d", i),
				Kind:      kind,
				Variables: []string{src, tgt},
				Priority:  8,
				Predicate: func(values map[string]taintmodel.Taint) bool {
					if values[src] != taintmodel.Tainted {
						return true
					}
					if sanitizing {
						return true
					}
					return values[tgt] == taintmodel.Tainted
				},
			})
		case taintmodel.ConstraintParameter:
			src, tgt := c.SourceVariable, c.TargetVariable
			rules = append(rules, taintmodel.ConstraintRule{
				ID:        fmt.Sprintf("parameter:%d", i),
				Kind:      "parameter",
				Variables: []string{src, tgt},
				Priority:  7,
				Predicate: func(values map[string]taintmodel.Taint) bool {
					if values[src] != taintmodel.Tainted {
						return true
					}
					return values[tgt] == taintmodel.Tainted
				},
			})
		case taintmodel.ConstraintReturn:
			src, tgt := c.SourceVariable, c.TargetVariable
			rules = append(rules, taintmodel.ConstraintRule{
				ID:        fmt.Sprintf("return:%d", i),
				Kind:      "assignment",
				Variables: []string{src, tgt},
				Priority:  8,
				Predicate: func(values map[string]taintmodel.Taint) bool {
					if values[src] != taintmodel.Tainted {
						return true
					}
					return values[tgt] == taintmodel.Tainted
				},
			})
		}
	}
	return rules
}

func sortRulesByPriority(rules []taintmodel.ConstraintRule) {
	for i := 1; i < len(rules); i++ {
		for j := i; j > 0 && rules[j].Priority > rules[j-1].Priority; j-- {
			rules[j], rules[j-1] = rules[j-1], rules[j]
		}
	}
}

func currentValues(vars map[string]*taintmodel.ConstraintVariable, names []string) map[string]taintmodel.Taint {
	out := make(map[string]taintmodel.Taint, len(names))
	for _, n := range names {
		v, ok := vars[n]
		if !ok || v.Value == nil {
			continue
		}
		out[n] = *v.Value
	}
	return out
}

// inferAndPropagate assigns a value to whichever of the rule's variables is
// still unset, when the rule's kind determines that value unambiguously
// from the other (already-valued) variable. It never lowers a variable that
// already has a value.
func inferAndPropagate(rule taintmodel.ConstraintRule, vars map[string]*taintmodel.ConstraintVariable, values map[string]taintmodel.Taint, steps *[]taintmodel.InferenceStep, iteration int) bool {
	if len(rule.Variables) != 2 {
		return false
	}
	src, tgt := rule.Variables[0], rule.Variables[1]
	srcVal, srcKnown := values[src]
	tgtVar := vars[tgt]
	if tgtVar == nil || tgtVar.Value != nil || !srcKnown {
		return false
	}
	if srcVal != taintmodel.Tainted {
		return false
	}
	var newVal taintmodel.Taint
	switch rule.Kind {
	case "assignment", "parameter":
		newVal = taintmodel.Tainted
	default:
		return false
	}
	if !tgtVar.InDomain(newVal) {
		return false
	}
	tgtVar.Value = &newVal
	*steps = append(*steps, taintmodel.InferenceStep{
		Step:      len(*steps) + 1,
		Rule:      rule.ID,
		Variable:  tgt,
		OldValue:  nil,
		NewValue:  newVal,
		Reasoning: fmt.Sprintf("%s propagates tainted from %s", rule.Kind, src),
	})
	_ = iteration
	return true
}

func summarize(vars map[string]*taintmodel.ConstraintVariable, steps []taintmodel.InferenceStep, violations []Violation) Solution {
	sol := Solution{Variables: vars, Steps: steps, Violations: violations, Total: len(vars)}
	for _, v := range vars {
		if v.Value == nil {
			sol.UnknownN++
			continue
		}
		sol.Solved++
		switch *v.Value {
		case taintmodel.Tainted:
			sol.Tainted++
		case taintmodel.Untainted, taintmodel.Sanitized:
			sol.Untainted++
		default:
			sol.UnknownN++
		}
	}
	return sol
}

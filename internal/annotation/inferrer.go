// Package annotation implements the Annotation Inferrer (spec component
// C7): given a solved constraint solution, it emits an
// InferredTypeAnnotation per definite variable, each with a JSDoc and
// structural TypeScript rendering, reasoning text, and an add/modify
// suggestion.
package annotation

import (
	"fmt"

	"github.com/tainthound/jsflow/internal/solver"
	"github.com/tainthound/jsflow/taintmodel"
)

// Result bundles the inferred annotations with the run's quality metrics.
type Result struct {
	Annotations []taintmodel.InferredTypeAnnotation
	Metrics     taintmodel.AnnotationMetrics
}

// existingAnnotations lets callers pass in what the source already
// declares (via JSDoc or a structural type), so the inferrer can tell an
// "add" suggestion from a contradicting "modify" one.
func Infer(sol solver.Solution, existingAnnotations map[string]*taintmodel.Annotation, sourceConfidence map[string]float64, locations map[string]taintmodel.Location) Result {
	var out []taintmodel.InferredTypeAnnotation
	var confidenceSum float64
	var autoApplicable int

	stepsByVariable := make(map[string][]taintmodel.InferenceStep)
	for _, s := range sol.Steps {
		stepsByVariable[s.Variable] = append(stepsByVariable[s.Variable], s)
	}

	for name, v := range sol.Variables {
		if v.Value == nil || *v.Value == taintmodel.Unknown {
			continue
		}
		value := *v.Value
		confidence := confidenceFor(name, value, existingAnnotations[name], stepsByVariable[name], sourceConfidence[name])
		confidenceSum += confidence

		suggestion := taintmodel.SuggestionAdd
		existing, hadExisting := existingAnnotations[name]
		if hadExisting {
			if existingVal, ok := existing.Value(); ok && existingVal != value {
				suggestion = taintmodel.SuggestionModify
			}
		}

		auto := suggestion == taintmodel.SuggestionAdd && confidence > 0.85
		if auto {
			autoApplicable++
		}

		ann := taintmodel.InferredTypeAnnotation{
			Variable:       name,
			Location:       locations[name],
			Value:          value,
			Confidence:     confidence,
			JSDocForm:      jsDocForm(value),
			StructuralForm: structuralForm(value),
			Reasoning:      reasoningFor(name, value, stepsByVariable[name]),
			Suggestion:     suggestion,
			AutoApplicable: auto,
			Priority:       priorityFor(confidence),
		}
		out = append(out, ann)
	}

	metrics := taintmodel.AnnotationMetrics{}
	if len(out) > 0 {
		metrics.AverageConfidence = confidenceSum / float64(len(out))
	}
	if sol.Total > 0 {
		metrics.Coverage = float64(len(out)) / float64(sol.Total)
	}
	if len(out) > 0 {
		metrics.AcceptanceEstimate = float64(autoApplicable) / float64(len(out))
	}

	return Result{Annotations: out, Metrics: metrics}
}

func confidenceFor(name string, value taintmodel.Taint, existing *taintmodel.Annotation, steps []taintmodel.InferenceStep, sourceConf float64) float64 {
	c := 0.5
	if sourceConf > 0 {
		c = sourceConf
	}
	if existing != nil {
		if existingVal, ok := existing.Value(); ok && existingVal == value {
			c += 0.1
		}
	}
	if len(steps) > 0 {
		stepBoost := 0.02 * float64(len(steps))
		if stepBoost > 0.1 {
			stepBoost = 0.1
		}
		c += stepBoost
	}
	if value == taintmodel.Tainted {
		c += 0.02
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}

func jsDocForm(value taintmodel.Taint) string {
	switch value {
	case taintmodel.Tainted:
		return "@tainted"
	case taintmodel.Untainted:
		return "@untainted"
	case taintmodel.Sanitized:
		return "@sanitized"
	default:
		return ""
	}
}

func structuralForm(value taintmodel.Taint) string {
	switch value {
	case taintmodel.Tainted:
		return "Tainted<T>"
	case taintmodel.Untainted:
		return "Untainted<T>"
	case taintmodel.Sanitized:
		return "Sanitized<T>"
	default:
		return ""
	}
}

func reasoningFor(name string, value taintmodel.Taint, steps []taintmodel.InferenceStep) []string {
	var lines []string
	for _, s := range steps {
		lines = append(lines, s.Reasoning)
	}
	lines = append(lines, categoryExplanation(name, value))
	return lines
}

func categoryExplanation(name string, value taintmodel.Taint) string {
	switch value {
	case taintmodel.Tainted:
		return fmt.Sprintf("%s carries data traced to an untrusted source with no intervening sanitizer", name)
	case taintmodel.Untainted:
		return fmt.Sprintf("%s never received tainted input along any traced constraint", name)
	case taintmodel.Sanitized:
		return fmt.Sprintf("%s passed through a recognized sanitizer before further use", name)
	default:
		return fmt.Sprintf("%s's taint status could not be determined from available constraints", name)
	}
}

func priorityFor(confidence float64) taintmodel.PriorityBucket {
	switch {
	case confidence > 0.85:
		return taintmodel.PriorityHigh
	case confidence >= 0.7:
		return taintmodel.PriorityMedium
	default:
		return taintmodel.PriorityLow
	}
}

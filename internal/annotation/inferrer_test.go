package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tainthound/jsflow/internal/solver"
	"github.com/tainthound/jsflow/taintmodel"
)

func TestInferEmitsTaintedAnnotationWithJSDocAndStructuralForms(t *testing.T) {
	info := map[string]*taintmodel.TypeBasedTaintInfo{
		"userId": {Variable: "userId", TaintStatus: taintmodel.Tainted, SourceInfoIdx: 0},
	}
	sol := solver.Solve(nil, info)

	result := Infer(sol, nil, map[string]float64{"userId": 0.9}, nil)
	require.Len(t, result.Annotations, 1)
	ann := result.Annotations[0]
	assert.Equal(t, taintmodel.Tainted, ann.Value)
	assert.Equal(t, "@tainted", ann.JSDocForm)
	assert.Equal(t, "Tainted<T>", ann.StructuralForm)
	assert.Equal(t, taintmodel.SuggestionAdd, ann.Suggestion)
}

func TestInferSuggestsModifyWhenExistingAnnotationDisagrees(t *testing.T) {
	info := map[string]*taintmodel.TypeBasedTaintInfo{
		"x": {Variable: "x", TaintStatus: taintmodel.Tainted, SourceInfoIdx: 0},
	}
	sol := solver.Solve(nil, info)

	existing := map[string]*taintmodel.Annotation{
		"x": {IsUntaintedAnnotation: true},
	}
	result := Infer(sol, existing, nil, nil)
	require.Len(t, result.Annotations, 1)
	assert.Equal(t, taintmodel.SuggestionModify, result.Annotations[0].Suggestion)
	assert.False(t, result.Annotations[0].AutoApplicable)
}

func TestInferSkipsUnknownVariables(t *testing.T) {
	info := map[string]*taintmodel.TypeBasedTaintInfo{}
	constraints := []taintmodel.TypeConstraint{
		{Kind: taintmodel.ConstraintAssignment, SourceVariable: "a", TargetVariable: "b"},
	}
	sol := solver.Solve(constraints, info)
	result := Infer(sol, nil, nil, nil)
	assert.Empty(t, result.Annotations)
}

func TestMetricsCoverageAndAcceptance(t *testing.T) {
	info := map[string]*taintmodel.TypeBasedTaintInfo{
		"a": {Variable: "a", TaintStatus: taintmodel.Tainted, SourceInfoIdx: 0},
	}
	constraints := []taintmodel.TypeConstraint{
		{Kind: taintmodel.ConstraintAssignment, SourceVariable: "a", TargetVariable: "b"},
	}
	sol := solver.Solve(constraints, info)
	result := Infer(sol, nil, map[string]float64{"a": 0.95, "b": 0.95}, nil)

	assert.Greater(t, result.Metrics.Coverage, 0.0)
	assert.LessOrEqual(t, result.Metrics.Coverage, 1.0)
	assert.Greater(t, result.Metrics.AcceptanceEstimate, 0.0)
	assert.LessOrEqual(t, result.Metrics.AcceptanceEstimate, 1.0)
}

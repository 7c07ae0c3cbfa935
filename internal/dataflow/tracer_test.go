package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tainthound/jsflow/taintmodel"
)

func TestTraceDirectUse(t *testing.T) {
	src := taintmodel.TaintSource{
		Category:     taintmodel.CategoryUserInput,
		VariableName: "id",
		Confidence:   0.9,
		Location:     taintmodel.Location{File: "x.js", Line: 2, Column: 1},
	}
	snk := taintmodel.TaintSink{
		Kind:       taintmodel.SinkSQLInjection,
		Confidence: 0.9,
		Location:   taintmodel.Location{File: "x.js", Line: 3, Column: 1},
		DangerousFunction: taintmodel.DangerousFunction{
			FunctionName: "query",
			Arguments:    []string{"id"},
		},
	}
	path, ok := Trace(src, snk, nil, nil)
	require.True(t, ok)
	assert.NotEmpty(t, path.Steps)
	assert.Equal(t, taintmodel.RiskCritical, path.RiskLevel)
}

func TestTraceConstraintGraph(t *testing.T) {
	src := taintmodel.TaintSource{
		Category:     taintmodel.CategoryUserInput,
		VariableName: "userId",
		Confidence:   0.9,
		Location:     taintmodel.Location{File: "x.js", Line: 2, Column: 1},
	}
	snk := taintmodel.TaintSink{
		Kind:       taintmodel.SinkCommandInjection,
		Confidence: 0.85,
		Location:   taintmodel.Location{File: "x.js", Line: 6, Column: 1},
		DangerousFunction: taintmodel.DangerousFunction{
			FunctionName: "exec",
			Arguments:    []string{"cmd"},
		},
	}
	constraints := []taintmodel.TypeConstraint{
		{Kind: taintmodel.ConstraintAssignment, SourceVariable: "userId", TargetVariable: "safe", Location: taintmodel.Location{File: "x.js", Line: 3}},
		{Kind: taintmodel.ConstraintAssignment, SourceVariable: "safe", TargetVariable: "cmd", Location: taintmodel.Location{File: "x.js", Line: 4}},
	}
	path, ok := Trace(src, snk, constraints, nil)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(path.Steps), 2)
}

func TestTraceNoPathFound(t *testing.T) {
	src := taintmodel.TaintSource{VariableName: "a", Location: taintmodel.Location{File: "x.js", Line: 1}}
	snk := taintmodel.TaintSink{DangerousFunction: taintmodel.DangerousFunction{FunctionName: "exec", Arguments: []string{"b"}}, Location: taintmodel.Location{File: "x.js", Line: 5}}
	_, ok := Trace(src, snk, nil, nil)
	assert.False(t, ok)
}

func TestSanitizationPenaltyCaps(t *testing.T) {
	spans := []string{
		"validator.isEmail(x)",
		"parseInt(x)",
		"db.prepare('?')",
		"return res.status(400).send()",
		"/^[a-z]+$/.test(x)",
	}
	assert.Equal(t, 6, SanitizationPenalty(spans))
}

func TestIsSanitizerCall(t *testing.T) {
	assert.True(t, IsSanitizerCall("sanitizeInput"))
	assert.True(t, IsSanitizerCall("validate"))
	assert.False(t, IsSanitizerCall("query"))
}

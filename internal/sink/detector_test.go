package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tainthound/jsflow/internal/astfacade"
	"github.com/tainthound/jsflow/taintmodel"
)

func parse(t *testing.T, src string) *astfacade.File {
	t.Helper()
	f, errs := astfacade.Parse([]byte(src), "x.js")
	require.Empty(t, errs)
	return f
}

func TestDetectSQLInjectionSink(t *testing.T) {
	f := parse(t, `db.query(sql);`)
	sinks := Detect(f)
	require.Len(t, sinks, 1)
	assert.Equal(t, taintmodel.SinkSQLInjection, sinks[0].Kind)
	assert.Equal(t, taintmodel.RiskCritical, sinks[0].RiskLevel)
}

func TestDetectCommandInjectionBareAndDotted(t *testing.T) {
	f := parse(t, `child_process.exec(cmd); exec(cmd2);`)
	sinks := Detect(f)
	require.Len(t, sinks, 2)
	for _, s := range sinks {
		assert.Equal(t, taintmodel.SinkCommandInjection, s.Kind)
	}
}

func TestDetectFunctionConstructor(t *testing.T) {
	f := parse(t, `const f = new Function(body);`)
	sinks := Detect(f)
	require.Len(t, sinks, 1)
	assert.Equal(t, taintmodel.SinkCodeInjection, sinks[0].Kind)
}

func TestDetectEval(t *testing.T) {
	f := parse(t, `eval(userInput);`)
	sinks := Detect(f)
	require.Len(t, sinks, 1)
	assert.Equal(t, taintmodel.SinkCodeInjection, sinks[0].Kind)
}

func TestDetectDeduplicatesSamePosition(t *testing.T) {
	f := parse(t, `db.query(sql);`)
	a := Detect(f)
	b := Detect(f)
	assert.Equal(t, len(a), len(b))
}

func TestKeysBuildsPositionIndex(t *testing.T) {
	f := parse(t, `db.query(sql);`)
	sinks := Detect(f)
	keys := Keys(sinks)
	assert.Len(t, keys, len(sinks))
}

func TestDetectBareQueryAndExecute(t *testing.T) {
	f := parse(t, `query(sql); execute(sql2);`)
	sinks := Detect(f)
	require.Len(t, sinks, 2)
	for _, s := range sinks {
		assert.Equal(t, taintmodel.SinkSQLInjection, s.Kind)
		assert.Equal(t, taintmodel.RiskCritical, s.RiskLevel)
		assert.Equal(t, 0.9, s.Confidence)
	}
}

func TestDetectCommandInjectionConfidenceMatchesSpec(t *testing.T) {
	f := parse(t, `exec(cmd);`)
	sinks := Detect(f)
	require.Len(t, sinks, 1)
	assert.Equal(t, 0.95, sinks[0].Confidence)
}

func TestDetectEvalConfidenceMatchesSpec(t *testing.T) {
	f := parse(t, `eval(userInput);`)
	sinks := Detect(f)
	require.Len(t, sinks, 1)
	assert.Equal(t, 0.95, sinks[0].Confidence)
}

func TestDetectFunctionConstructorConfidenceMatchesSpec(t *testing.T) {
	f := parse(t, `const f = new Function(body);`)
	sinks := Detect(f)
	require.Len(t, sinks, 1)
	assert.Equal(t, 0.95, sinks[0].Confidence)
}

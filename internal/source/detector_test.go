package source

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

func TestDetectReqQueryPropertyChain(t *testing.T) {
	f := parse(t, `function handle(req) {
  const id = req.query.id;
  return id;
}`)
	sources := Detect(f, nil)
	require.Len(t, sources, 1)
	assert.Equal(t, taintmodel.CategoryUserInput, sources[0].Category)
	assert.Equal(t, "req", sources[0].APICall.ObjectName)
	assert.Equal(t, "query", sources[0].APICall.FunctionName)
	assert.Equal(t, "id", sources[0].VariableName)
}

func TestDetectDoesNotReportBareReqSeparately(t *testing.T) {
	f := parse(t, `const q = req.query;`)
	sources := Detect(f, nil)
	require.Len(t, sources, 1)
	assert.Equal(t, "query", sources[0].APICall.FunctionName)
}

func TestDetectElementAccess(t *testing.T) {
	f := parse(t, `const body = req['body'];`)
	sources := Detect(f, nil)
	require.Len(t, sources, 1)
	assert.Equal(t, "body", sources[0].APICall.FunctionName)
	assert.Equal(t, "body", sources[0].VariableName)
}

func TestDetectFunctionCallSyncVariant(t *testing.T) {
	f := parse(t, `const data = fs.readFileSync(path);`)
	sources := Detect(f, nil)
	require.Len(t, sources, 1)
	assert.Equal(t, taintmodel.CategoryFileInput, sources[0].Category)
	assert.Equal(t, "data", sources[0].VariableName)
}

func TestDetectNetworkClient(t *testing.T) {
	f := parse(t, `const resp = await fetch(url);`)
	sources := Detect(f, nil)
	require.Len(t, sources, 1)
	assert.Equal(t, taintmodel.CategoryNetworkInput, sources[0].Category)
}

func TestDetectStandaloneGlobal(t *testing.T) {
	f := parse(t, `const href = location;`)
	sources := Detect(f, nil)
	require.Len(t, sources, 1)
	assert.Equal(t, "browser-location", sources[0].SubCategory)
}

func TestDetectTaintedParameterAnnotation(t *testing.T) {
	f := parse(t, `/** @tainted */
function handle(userId) {
  return userId;
}`)
	sources := Detect(f, nil)
	require.Len(t, sources, 1)
	assert.Equal(t, "tainted-parameter", sources[0].SubCategory)
	assert.Equal(t, "userId", sources[0].VariableName)
}

func TestDetectExcludesRecognizedSinks(t *testing.T) {
	f := parse(t, `const data = fs.readFileSync(path);`)
	pre := Detect(f, nil)
	require.Len(t, pre, 1)

	sinks := map[string]bool{posKey(pre[0].Location, pre[0].APICall.FunctionName): true}
	sources := Detect(f, sinks)
	assert.Empty(t, sources)
}

func TestDetectDeduplicatesRepeatedAccess(t *testing.T) {
	f := parse(t, `function handle(req) {
  const a = req.query.id;
  const b = req.query.name;
}`)
	sources := Detect(f, nil)
	// Both accesses are on the same member_expression text/location pattern
	// conceptually, but distinct statements yield distinct locations, so
	// both should be reported — verifying dedup only collapses true
	// duplicates, not every use of req.query.
	assert.Len(t, sources, 2)
}

package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tainthound/jsflow/taintmodel"
)

func TestScanDetectsWeakHash(t *testing.T) {
	src := []byte("const hash = crypto.createHash('md5').update(data).digest('hex');\n")
	issues := Scan("app.js", src, false)
	require.Len(t, issues, 1)
	assert.Equal(t, taintmodel.IssueCryptographicFailure, issues[0].Type)
}

func TestScanSkipsTestFiles(t *testing.T) {
	src := []byte("const hash = crypto.createHash('md5');\n")
	issues := Scan("app.test.js", src, false)
	assert.Empty(t, issues)
}

func TestScanSkipsCommentsAndImports(t *testing.T) {
	src := []byte("// use md5 here\nimport md5 from 'md5';\n")
	issues := Scan("app.js", src, false)
	assert.Empty(t, issues)
}

func TestScanAccessControlSuppressedWhenGuarded(t *testing.T) {
	src := []byte("if (isAuthenticated(req)) {\n  res.sendFile(req.query.path);\n}\n")
	issues := Scan("app.js", src, false)
	assert.Empty(t, issues)
}

func TestScanAccessControlFlaggedWhenUnguarded(t *testing.T) {
	src := []byte("function handler(req, res) {\n  res.sendFile(req.query.path);\n}\n")
	issues := Scan("app.js", src, false)
	require.Len(t, issues, 1)
	assert.Equal(t, taintmodel.IssueAccessControlFailure, issues[0].Type)
}

func TestScanBenchmarkModeOnlySkipsBinary(t *testing.T) {
	src := []byte("const hash = crypto.createHash('md5');\n")
	issues := Scan("app.test.js", src, true)
	assert.NotEmpty(t, issues)

	issues = Scan("bundle.min.js", src, true)
	assert.Empty(t, issues)
}

func TestScanSSRFUnvalidatedFetch(t *testing.T) {
	src := []byte("async function proxy(req) {\n  return fetch(req.query.url);\n}\n")
	issues := Scan("app.js", src, false)
	require.Len(t, issues, 1)
	assert.Equal(t, taintmodel.IssueSSRF, issues[0].Type)
}

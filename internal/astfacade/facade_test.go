package astfacade

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidJavaScript(t *testing.T) {
	src := []byte(`function handle(req) {
  const id = req.params.id;
  return id;
}`)
	f, errs := Parse(src, "handler.js")
	require.NotNil(t, f)
	assert.Empty(t, errs)
	assert.False(t, f.IsTypeScript)
}

func TestParseTypeScriptByExtension(t *testing.T) {
	src := []byte(`function handle(req: Request): string {
  const id: string = req.params.id;
  return id;
}`)
	f, errs := Parse(src, "handler.ts")
	require.NotNil(t, f)
	assert.Empty(t, errs)
	assert.True(t, f.IsTypeScript)
}

func TestParseNeverRaisesOnGarbage(t *testing.T) {
	src := []byte(`function( { this is not valid js at all +++`)
	f, errs := Parse(src, "broken.js")
	require.NotNil(t, f)
	assert.NotEmpty(t, errs)
}

func TestVisitPreOrder(t *testing.T) {
	src := []byte(`const a = 1; const b = 2;`)
	f, _ := Parse(src, "x.js")

	var kinds []string
	f.Visit(func(n *sitter.Node) bool {
		kinds = append(kinds, n.Type())
		return true
	})
	assert.NotEmpty(t, kinds)
}

func TestJSDocTaintedTagAttachesToDeclaration(t *testing.T) {
	src := []byte(`/** @tainted */
function handle(userId) {
  return userId;
}`)
	f, _ := Parse(src, "x.js")

	var fnNode *sitter.Node
	f.Visit(func(n *sitter.Node) bool {
		if n.Type() == "function_declaration" {
			fnNode = n
		}
		return true
	})
	require.NotNil(t, fnNode)

	tags := f.JSDoc(fnNode)
	assert.True(t, HasTag(tags, "tainted"))
}

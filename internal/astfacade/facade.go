// Package astfacade wraps tree-sitter parsing of JavaScript and TypeScript
// source into a small, classified-event surface. Other components never
// see *sitter.Node kinds directly except through the Is* helpers here,
// matching the teacher's convention (graph/parser_python.go,
// graph/initialize.go) of keeping tree-sitter details behind the package
// boundary.
package astfacade

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/tainthound/jsflow/taintmodel"
)

// ParseError is a non-fatal diagnostic produced while parsing. Parsing
// never raises for syntactically invalid input: the facade returns a
// best-effort tree plus whatever ParseErrors it found along the way.
type ParseError struct {
	Location taintmodel.Location
	Message  string
}

// File is a parsed source file plus the data needed to answer text/location
// queries about any node in it.
type File struct {
	Tree         *sitter.Tree
	Source       []byte
	Name         string
	IsTypeScript bool
}

// languageFor selects a tree-sitter grammar by file extension. JavaScript
// files are parsed with relaxed typing (the JS grammar has no type
// annotations to begin with); TypeScript/TSX use their stricter grammars.
func languageFor(fileName string) (*sitter.Language, bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".ts":
		return typescript.GetLanguage(), true
	case ".tsx":
		return tsx.GetLanguage(), true
	case ".jsx", ".js":
		return javascript.GetLanguage(), false
	default:
		return javascript.GetLanguage(), false
	}
}

// Parse parses source into a File. Parsing never returns an error for
// malformed input — tree-sitter's error-recovery nodes let the walk
// continue over a best-effort tree, and any ERROR node encountered is
// reported back as a non-fatal ParseError instead.
func Parse(source []byte, fileName string) (*File, []ParseError) {
	lang, isTS := languageFor(fileName)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return &File{Source: source, Name: fileName, IsTypeScript: isTS}, []ParseError{
			{Location: taintmodel.Location{File: fileName, Line: 1, Column: 1}, Message: err.Error()},
		}
	}

	f := &File{Tree: tree, Source: source, Name: fileName, IsTypeScript: isTS}
	return f, f.collectParseErrors()
}

func (f *File) collectParseErrors() []ParseError {
	if f.Tree == nil {
		return nil
	}
	var errs []ParseError
	f.Visit(func(n *sitter.Node) bool {
		if n.Type() == "ERROR" || n.IsMissing() {
			errs = append(errs, ParseError{Location: f.Location(n), Message: "syntax error near " + preview(f.Text(n))})
		}
		return true
	})
	return errs
}

func preview(s string) string {
	const max = 40
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// Visit invokes fn in pre-order over every node in the tree. Returning
// false from fn skips that node's subtree.
func (f *File) Visit(fn func(n *sitter.Node) bool) {
	if f.Tree == nil {
		return
	}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if !fn(n) {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(f.Tree.RootNode())
}

// Text returns the source text spanned by n.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.Source)
}

// Location returns n's starting position as a 1-based Location, with
// Length set to the byte span of the node.
func (f *File) Location(n *sitter.Node) taintmodel.Location {
	if n == nil {
		return taintmodel.Location{File: f.Name, Line: 1, Column: 1}
	}
	p := n.StartPoint()
	return taintmodel.Location{
		File:   f.Name,
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
		Length: int(n.EndByte() - n.StartByte()),
	}
}

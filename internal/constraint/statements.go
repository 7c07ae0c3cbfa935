// Package constraint implements the Constraint Extractor (spec component
// C4): it flattens a function body into the Statement/def-use model and
// extracts TypeConstraint values from assignments, parameters, returns, and
// property access.
package constraint

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tainthound/jsflow/internal/astfacade"
	"github.com/tainthound/jsflow/taintmodel"
)

// BuildStatements walks a function-like node's body and returns a flattened
// def/use statement tree, in the same shallow-recursive shape as the
// teacher's core.Statement (graph/callgraph/core/statement.go), adapted to
// JS/TS's expression-statement-heavy grammar.
func BuildStatements(file *astfacade.File, fn *sitter.Node) []*taintmodel.Statement {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	return statementsInBlock(file, body)
}

func statementsInBlock(file *astfacade.File, block *sitter.Node) []*taintmodel.Statement {
	var out []*taintmodel.Statement
	for i := 0; i < int(block.NamedChildCount()); i++ {
		if s := buildStatement(file, block.NamedChild(i)); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func buildStatement(file *astfacade.File, n *sitter.Node) *taintmodel.Statement {
	switch n.Type() {
	case "lexical_declaration", "variable_declaration":
		return declarationStatement(file, n)
	case "expression_statement":
		return expressionStatement(file, n)
	case "return_statement":
		return returnStatement(file, n)
	case "if_statement":
		return ifStatement(file, n)
	default:
		return nil
	}
}

func declarationStatement(file *astfacade.File, n *sitter.Node) *taintmodel.Statement {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if !astfacade.IsVariableDeclarator(decl) {
			continue
		}
		name, value := astfacade.DeclaratorParts(decl)
		if name == nil {
			continue
		}
		s := &taintmodel.Statement{
			Kind:          taintmodel.StatementDeclaration,
			Location:      file.Location(decl),
			Def:           file.Text(name),
			AnnotationTag: annotationTag(file.JSDoc(n)),
		}
		if value != nil {
			s.RHSText = file.Text(value)
			s.Uses = identifierUses(file, value)
			if astfacade.IsCallExpression(value) {
				s.CallTarget = file.Text(astfacade.Callee(value))
				s.CallArgs = append(s.CallArgs, argUses(file, astfacade.CallArguments(value))...)
			}
		}
		return s
	}
	return nil
}

// annotationTag reduces a declaration's JSDoc tags to the single taint
// qualifier they express, if any.
func annotationTag(tags []astfacade.JSDocTag) string {
	switch {
	case astfacade.HasTag(tags, "tainted"):
		return "tainted"
	case astfacade.HasTag(tags, "untainted"):
		return "untainted"
	case astfacade.HasTag(tags, "sanitized"):
		return "sanitized"
	default:
		return ""
	}
}

func expressionStatement(file *astfacade.File, n *sitter.Node) *taintmodel.Statement {
	if n.NamedChildCount() == 0 {
		return nil
	}
	expr := n.NamedChild(0)
	switch {
	case astfacade.IsAssignmentExpression(expr):
		left, right := astfacade.AssignmentParts(expr)
		if left == nil {
			return nil
		}
		s := &taintmodel.Statement{
			Kind:     taintmodel.StatementAssignment,
			Location: file.Location(expr),
			Def:      file.Text(left),
		}
		if right != nil {
			s.RHSText = file.Text(right)
			s.Uses = identifierUses(file, right)
		}
		return s
	case astfacade.IsCallExpression(expr):
		callee := astfacade.Callee(expr)
		if callee == nil {
			return nil
		}
		return &taintmodel.Statement{
			Kind:       taintmodel.StatementCall,
			Location:   file.Location(expr),
			CallTarget: file.Text(callee),
			CallArgs:   argUses(file, astfacade.CallArguments(expr)),
			Uses:       identifierUses(file, expr),
			RHSText:    file.Text(expr),
		}
	case astfacade.IsMemberExpression(expr):
		obj, _ := astfacade.MemberParts(expr)
		uses := identifierUses(file, expr)
		def := ""
		if obj != nil {
			def = file.Text(obj)
		}
		_ = def
		return &taintmodel.Statement{
			Kind:     taintmodel.StatementPropertyGet,
			Location: file.Location(expr),
			Uses:     uses,
			RHSText:  file.Text(expr),
		}
	default:
		return nil
	}
}

func returnStatement(file *astfacade.File, n *sitter.Node) *taintmodel.Statement {
	if n.NamedChildCount() == 0 {
		return &taintmodel.Statement{Kind: taintmodel.StatementReturn, Location: file.Location(n)}
	}
	val := n.NamedChild(0)
	return &taintmodel.Statement{
		Kind:     taintmodel.StatementReturn,
		Location: file.Location(n),
		Uses:     identifierUses(file, val),
		RHSText:  file.Text(val),
	}
}

func ifStatement(file *astfacade.File, n *sitter.Node) *taintmodel.Statement {
	cond := n.ChildByFieldName("condition")
	cons := n.ChildByFieldName("consequence")
	s := &taintmodel.Statement{Kind: taintmodel.StatementIf, Location: file.Location(n)}
	if cond != nil {
		s.Uses = identifierUses(file, cond)
		s.RHSText = file.Text(cond)
	}
	if cons != nil && cons.Type() == "statement_block" {
		s.Nested = statementsInBlock(file, cons)
	}
	return s
}

// identifierUses collects every plain identifier read within expr, skipping
// the property half of member expressions (obj.prop only "uses" obj).
func identifierUses(file *astfacade.File, expr *sitter.Node) []string {
	if expr == nil {
		return nil
	}
	var uses []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if astfacade.IsMemberExpression(n) {
			obj, _ := astfacade.MemberParts(n)
			walk(obj)
			return
		}
		if astfacade.IsIdentifier(n) && n.Type() == "identifier" {
			uses = append(uses, file.Text(n))
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(expr)
	return uses
}

func argUses(file *astfacade.File, args []*sitter.Node) []string {
	var out []string
	for _, a := range args {
		out = append(out, identifierUses(file, a)...)
	}
	return out
}

package constraint

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tainthound/jsflow/internal/astfacade"
	"github.com/tainthound/jsflow/taintmodel"
)

// Extracted bundles everything the Constraint Extractor produces for one
// function: the flattened statement tree (kept for the data-flow tracer's
// textual fallback), the constraints themselves, and the seeded per-variable
// taint info map the solver starts from.
type Extracted struct {
	Statements  []*taintmodel.Statement
	Constraints []taintmodel.TypeConstraint
	Info        map[string]*taintmodel.TypeBasedTaintInfo
}

// Extract builds the constraint set for one function-like node. fnName
// identifies the function for synthesized parameter/return variable names
// ("F[param0]", "F:return"). sources seeds initial taint for variables a
// source detector already recognized as tainted at their defining location.
func Extract(file *astfacade.File, fn *sitter.Node, fnName string, sources []taintmodel.TaintSource) Extracted {
	stmts := BuildStatements(file, fn)
	info := make(map[string]*taintmodel.TypeBasedTaintInfo)
	var constraints []taintmodel.TypeConstraint

	ensure := func(name string) *taintmodel.TypeBasedTaintInfo {
		if name == "" {
			return nil
		}
		if v, ok := info[name]; ok {
			return v
		}
		v := &taintmodel.TypeBasedTaintInfo{Variable: name, TaintStatus: taintmodel.Unknown, SourceInfoIdx: -1}
		info[name] = v
		return v
	}

	for idx, src := range sources {
		v := ensure(src.VariableName)
		if v == nil {
			continue
		}
		v.TaintStatus = taintmodel.Tainted
		v.SourceInfoIdx = idx
	}

	extractParameters(file, fn, fnName, ensure, &constraints)

	for _, s := range allFlattened(stmts) {
		extractStatement(s, fnName, ensure, &constraints)
	}

	return Extracted{Statements: stmts, Constraints: constraints, Info: info}
}

func allFlattened(stmts []*taintmodel.Statement) []*taintmodel.Statement {
	var out []*taintmodel.Statement
	for _, s := range stmts {
		out = append(out, s.AllStatements()...)
	}
	return out
}

func extractParameters(file *astfacade.File, fn *sitter.Node, fnName string, ensure func(string) *taintmodel.TypeBasedTaintInfo, constraints *[]taintmodel.TypeConstraint) {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	fnTag := annotationTag(file.JSDoc(fn))
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		name := paramName(file, p)
		if name == "" {
			continue
		}
		info := ensure(name)
		applyAnnotation(info, fnTag)
		target := fmt.Sprintf("%s[param%d]", fnName, i)
		*constraints = append(*constraints, taintmodel.TypeConstraint{
			Kind:           taintmodel.ConstraintParameter,
			SourceVariable: name,
			TargetVariable: target,
			Location:       file.Location(p),
			Description:    fmt.Sprintf("parameter %d of %s", i, fnName),
		})
	}
}

// applyAnnotation sets info.Annotation from an explicit @tainted/@untainted/
// @sanitized JSDoc tag, per spec.md §4.4 ("for annotated parameters:
// initialize taint status from the annotation"). A @tainted tag also sets
// TaintStatus directly so the variable seeds the solver as tainted even
// before any source-detector match.
func applyAnnotation(info *taintmodel.TypeBasedTaintInfo, tag string) {
	if info == nil || tag == "" {
		return
	}
	switch tag {
	case "tainted":
		info.Annotation = &taintmodel.Annotation{IsTaintedAnnotation: true}
		info.TaintStatus = taintmodel.Tainted
	case "untainted", "sanitized":
		info.Annotation = &taintmodel.Annotation{IsUntaintedAnnotation: true}
		if info.TaintStatus != taintmodel.Tainted {
			info.TaintStatus = taintmodel.Untainted
		}
	}
}

func paramName(file *astfacade.File, p *sitter.Node) string {
	switch p.Type() {
	case "identifier":
		return file.Text(p)
	case "required_parameter", "optional_parameter":
		if pat := p.ChildByFieldName("pattern"); pat != nil {
			return file.Text(pat)
		}
	}
	return file.Text(p)
}

func extractStatement(s *taintmodel.Statement, fnName string, ensure func(string) *taintmodel.TypeBasedTaintInfo, constraints *[]taintmodel.TypeConstraint) {
	switch s.Kind {
	case taintmodel.StatementDeclaration, taintmodel.StatementAssignment:
		if s.Def == "" {
			return
		}
		info := ensure(s.Def)
		applyAnnotation(info, s.AnnotationTag)
		for _, use := range s.Uses {
			ensure(use)
			*constraints = append(*constraints, taintmodel.TypeConstraint{
				Kind:           taintmodel.ConstraintAssignment,
				SourceVariable: use,
				TargetVariable: s.Def,
				Location:       s.Location,
				Description:    fmt.Sprintf("%s = %s", s.Def, s.RHSText),
			})
		}
	case taintmodel.StatementReturn:
		target := fnName + ":return"
		ensure(target)
		for _, use := range s.Uses {
			ensure(use)
			*constraints = append(*constraints, taintmodel.TypeConstraint{
				Kind:           taintmodel.ConstraintReturn,
				SourceVariable: use,
				TargetVariable: target,
				Location:       s.Location,
				Description:    fmt.Sprintf("return %s", s.RHSText),
			})
		}
	case taintmodel.StatementPropertyGet:
		for _, use := range s.Uses {
			ensure(use)
			*constraints = append(*constraints, taintmodel.TypeConstraint{
				Kind:           taintmodel.ConstraintPropertyAccess,
				SourceVariable: use,
				TargetVariable: s.RHSText,
				Location:       s.Location,
				Description:    fmt.Sprintf("property access %s", s.RHSText),
			})
		}
	case taintmodel.StatementCall:
		if s.CallTarget == "" {
			return
		}
		for _, use := range s.CallArgs {
			ensure(use)
			*constraints = append(*constraints, taintmodel.TypeConstraint{
				Kind:           taintmodel.ConstraintMethodCall,
				SourceVariable: use,
				TargetVariable: s.CallTarget,
				Location:       s.Location,
				Description:    fmt.Sprintf("%s(%s, ...)", s.CallTarget, use),
			})
		}
	}
}

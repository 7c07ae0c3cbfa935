// Package source implements the Source Detector (spec component C2): it
// walks a parsed file once and reports deduplicated TaintSource values for
// every recognized untrusted-data origin.
package source

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tainthound/jsflow/internal/astfacade"
	"github.com/tainthound/jsflow/taintmodel"
)

// posKey identifies a program point by file, position, and function name
// only — the shared prefix TaintSource.DedupKey and TaintSink.DedupKey both
// use, so a source candidate can be checked against recognized sink
// positions regardless of the two types' differing dedup-key suffixes.
func posKey(loc taintmodel.Location, fnName string) string {
	return loc.File + "|" + strconv.Itoa(loc.Line) + "|" + strconv.Itoa(loc.Column) + "|" + fnName
}

// Detect walks file and returns every recognized, deduplicated taint
// source. sinkKeys, if non-nil, excludes any candidate whose position and
// function exactly coincide with a recognized sink (e.g. db.query(text) is
// a sink, never also a source).
func Detect(file *astfacade.File, sinkKeys map[string]bool) []taintmodel.TaintSource {
	var sources []taintmodel.TaintSource
	seen := make(map[string]bool)

	add := func(s taintmodel.TaintSource) {
		key := s.DedupKey()
		if seen[key] {
			return
		}
		if sinkKeys != nil && sinkKeys[posKey(s.Location, s.APICall.FunctionName)] {
			return
		}
		seen[key] = true
		sources = append(sources, s)
	}

	file.Visit(func(n *sitter.Node) bool {
		switch {
		case astfacade.IsMemberExpression(n):
			if s, ok := matchPropertyAccess(file, n); ok {
				add(s)
			}
		case astfacade.IsSubscriptExpression(n):
			if s, ok := matchElementAccess(file, n); ok {
				add(s)
			}
		case astfacade.IsCallExpression(n):
			if s, ok := matchFunctionCall(file, n); ok {
				add(s)
			}
		case astfacade.IsIdentifier(n):
			if s, ok := matchStandaloneGlobal(file, n); ok {
				add(s)
			}
		}
		return true
	})

	for _, s := range taggedParameterSources(file) {
		add(s)
	}

	return sources
}

func matchPropertyAccess(file *astfacade.File, n *sitter.Node) (taintmodel.TaintSource, bool) {
	obj, prop := astfacade.MemberParts(n)
	if obj == nil || prop == nil || !astfacade.IsIdentifier(obj) {
		return taintmodel.TaintSource{}, false
	}
	objName := file.Text(obj)
	propName := file.Text(prop)

	for _, r := range propertyRules {
		if !containsFold(r.objects, objName) {
			continue
		}
		if !containsFold(r.properties, propName) {
			continue
		}
		return taintmodel.TaintSource{
			Category:    r.category,
			SubCategory: r.subCategory,
			Location:    file.Location(n),
			VariableName: receiverName(file, n, objName+"."+propName),
			APICall: taintmodel.APICall{
				FunctionName: propName,
				ObjectName:   objName,
			},
			Confidence: r.confidence,
		}, true
	}
	return taintmodel.TaintSource{}, false
}

func matchElementAccess(file *astfacade.File, n *sitter.Node) (taintmodel.TaintSource, bool) {
	obj := n.ChildByFieldName("object")
	idx := n.ChildByFieldName("index")
	if obj == nil || idx == nil || !astfacade.IsIdentifier(obj) {
		return taintmodel.TaintSource{}, false
	}
	prop := stringLiteralValue(file, idx)
	if prop == "" {
		return taintmodel.TaintSource{}, false
	}
	objName := file.Text(obj)
	for _, r := range propertyRules {
		if !containsFold(r.objects, objName) || !containsFold(r.properties, prop) {
			continue
		}
		return taintmodel.TaintSource{
			Category:    r.category,
			SubCategory: r.subCategory,
			Location:    file.Location(n),
			VariableName: receiverName(file, n, objName+"["+prop+"]"),
			APICall: taintmodel.APICall{
				FunctionName: prop,
				ObjectName:   objName,
			},
			Confidence: r.confidence,
		}, true
	}
	return taintmodel.TaintSource{}, false
}

func matchFunctionCall(file *astfacade.File, n *sitter.Node) (taintmodel.TaintSource, bool) {
	callee := astfacade.Callee(n)
	if callee == nil {
		return taintmodel.TaintSource{}, false
	}
	name := file.Text(callee)
	bare := strings.TrimSuffix(name, "Sync")

	for _, r := range functionRules {
		for _, candidate := range r.names {
			match := name == candidate
			if r.hasSyncSuffix {
				match = match || bare == candidate
			}
			if !match {
				continue
			}
			objName, fnName := splitDotted(name)
			args := astfacade.CallArguments(n)
			return taintmodel.TaintSource{
				Category:     r.category,
				SubCategory:  r.subCategory,
				Location:     file.Location(n),
				VariableName: receiverName(file, n, name),
				APICall: taintmodel.APICall{
					FunctionName: fnName,
					ObjectName:   objName,
					Arguments:    argTexts(file, args),
				},
				Confidence: r.confidence,
			}, true
		}
	}
	return taintmodel.TaintSource{}, false
}

func matchStandaloneGlobal(file *astfacade.File, n *sitter.Node) (taintmodel.TaintSource, bool) {
	// Only bare identifiers, not the property half of a member expression.
	if parent := n.Parent(); parent != nil && astfacade.IsMemberExpression(parent) {
		if _, prop := astfacade.MemberParts(parent); prop == n {
			return taintmodel.TaintSource{}, false
		}
	}
	name := file.Text(n)
	r, ok := standaloneGlobals[name]
	if !ok {
		return taintmodel.TaintSource{}, false
	}
	return taintmodel.TaintSource{
		Category:     r.category,
		SubCategory:  r.subCategory,
		Location:     file.Location(n),
		VariableName: receiverName(file, n, name),
		APICall:      taintmodel.APICall{FunctionName: name},
		Confidence:   r.confidence,
	}, true
}

// taggedParameterSources finds function parameters annotated @tainted.
func taggedParameterSources(file *astfacade.File) []taintmodel.TaintSource {
	var out []taintmodel.TaintSource
	file.Visit(func(n *sitter.Node) bool {
		if !astfacade.IsFunctionLike(n) {
			return true
		}
		params := n.ChildByFieldName("parameters")
		if params == nil {
			return true
		}
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			tags := file.JSDoc(n)
			name := paramName(file, p)
			if name == "" || !astfacade.HasTag(tags, "tainted") {
				continue
			}
			out = append(out, taintmodel.TaintSource{
				Category:     taintmodel.CategoryUserInput,
				SubCategory:  "tainted-parameter",
				Location:     file.Location(p),
				VariableName: name,
				APICall:      taintmodel.APICall{FunctionName: name},
				Confidence:   0.9,
			})
		}
		return true
	})
	return out
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

// receiverName walks up through enclosing member/call expressions to find
// the identifier that ultimately receives the matched expression's value —
// e.g. for `const filename = req.body.filename`, matching req.body yields
// "filename", not "body". Falls back to fallback when no declarator or
// assignment target is found.
func receiverName(file *astfacade.File, n *sitter.Node, fallback string) string {
	cur := n
	for cur != nil {
		parent := cur.Parent()
		if parent == nil {
			break
		}
		switch parent.Type() {
		case "variable_declarator":
			if name := parent.ChildByFieldName("name"); name != nil && parent.ChildByFieldName("value") == cur {
				return file.Text(name)
			}
		case "assignment_expression":
			if parent.ChildByFieldName("right") == cur {
				if left := parent.ChildByFieldName("left"); left != nil {
					return file.Text(left)
				}
			}
		case "member_expression", "subscript_expression", "call_expression", "arguments", "parenthesized_expression", "template_substitution":
			cur = parent
			continue
		}
		break
	}
	return fallback
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func splitDotted(name string) (object, fn string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+1:]
}

func stringLiteralValue(file *astfacade.File, n *sitter.Node) string {
	if !astfacade.IsString(n) {
		return ""
	}
	return strings.Trim(file.Text(n), `'"`+"`")
}

func argTexts(file *astfacade.File, nodes []*sitter.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, a := range nodes {
		out = append(out, file.Text(a))
	}
	return out
}

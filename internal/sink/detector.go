// Package sink implements the Sink Detector (spec component C3): it walks
// a parsed file and reports deduplicated TaintSink values for every call
// expression that would be dangerous if handed tainted data.
package sink

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tainthound/jsflow/internal/astfacade"
	"github.com/tainthound/jsflow/taintmodel"
)

// Detect walks file and returns every recognized, deduplicated taint sink.
func Detect(file *astfacade.File) []taintmodel.TaintSink {
	var sinks []taintmodel.TaintSink
	seen := make(map[string]bool)

	add := func(s taintmodel.TaintSink) {
		key := s.DedupKey()
		if seen[key] {
			return
		}
		seen[key] = true
		sinks = append(sinks, s)
	}

	file.Visit(func(n *sitter.Node) bool {
		switch {
		case astfacade.IsCallExpression(n):
			if s, ok := matchCall(file, n); ok {
				add(s)
			}
		case astfacade.IsNewExpression(n):
			if s, ok := matchNewExpression(file, n); ok {
				add(s)
			}
		}
		return true
	})

	return sinks
}

func matchCall(file *astfacade.File, n *sitter.Node) (taintmodel.TaintSink, bool) {
	callee := astfacade.Callee(n)
	if callee == nil {
		return taintmodel.TaintSink{}, false
	}
	args := astfacade.CallArguments(n)

	if obj, prop := astfacade.MemberParts(callee); obj != nil && prop != nil {
		objName := file.Text(obj)
		methodName := file.Text(prop)
		for _, r := range bareRules {
			if len(r.receivers) == 0 || !containsFold(r.receivers, objName) {
				continue
			}
			if !containsFold(r.names, methodName) {
				continue
			}
			return buildSink(file, n, r, objName, methodName, args), true
		}
		return taintmodel.TaintSink{}, false
	}

	if !astfacade.IsIdentifier(callee) {
		return taintmodel.TaintSink{}, false
	}
	name := file.Text(callee)
	for _, r := range bareRules {
		if len(r.receivers) != 0 {
			continue
		}
		if !containsFold(r.names, name) {
			continue
		}
		return buildSink(file, n, r, "", name, args), true
	}
	return taintmodel.TaintSink{}, false
}

func matchNewExpression(file *astfacade.File, n *sitter.Node) (taintmodel.TaintSink, bool) {
	callee := n.ChildByFieldName("constructor")
	if callee == nil || !astfacade.IsIdentifier(callee) {
		return taintmodel.TaintSink{}, false
	}
	name := file.Text(callee)
	if !containsFold(functionConstructorNames, name) {
		return taintmodel.TaintSink{}, false
	}
	args := astfacade.CallArguments(n)
	return taintmodel.TaintSink{
		Kind:     taintmodel.SinkCodeInjection,
		Category: "code-injection",
		Location: file.Location(n),
		DangerousFunction: taintmodel.DangerousFunction{
			FunctionName:          "Function",
			Arguments:             argTexts(file, args),
			DangerousParameterIdx: 0,
		},
		RiskLevel:  taintmodel.RiskCritical,
		Confidence: 0.95,
	}, true
}

func buildSink(file *astfacade.File, n *sitter.Node, r callRule, objName, fnName string, args []*sitter.Node) taintmodel.TaintSink {
	return taintmodel.TaintSink{
		Kind:     r.kind,
		Category: r.category,
		Location: file.Location(n),
		DangerousFunction: taintmodel.DangerousFunction{
			FunctionName:          fnName,
			ObjectName:            objName,
			Arguments:             argTexts(file, args),
			DangerousParameterIdx: r.dangerousArg,
		},
		RiskLevel:  r.riskLevel,
		Confidence: r.confidence,
	}
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func argTexts(file *astfacade.File, nodes []*sitter.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, a := range nodes {
		out = append(out, file.Text(a))
	}
	return out
}

// Keys returns the dedup keys of sinks, for use by the source detector to
// exclude candidates that coincide with a recognized sink.
func Keys(sinks []taintmodel.TaintSink) map[string]bool {
	out := make(map[string]bool, len(sinks))
	for _, s := range sinks {
		out[s.DedupKey()] = true
	}
	return out
}

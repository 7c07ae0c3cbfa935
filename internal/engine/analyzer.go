// Package engine implements the Orchestrator (spec component C9): for one
// file it runs source/sink detection, data-flow tracing, pattern matching,
// and constraint solving/annotation inference, merges their findings into a
// deduplicated AnalysisResult; for a project it fans the same pipeline out
// across files and aggregates a ProjectAnalysisResult.
package engine

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tainthound/jsflow/internal/annotation"
	"github.com/tainthound/jsflow/internal/astfacade"
	"github.com/tainthound/jsflow/internal/cache"
	"github.com/tainthound/jsflow/internal/constraint"
	"github.com/tainthound/jsflow/internal/dataflow"
	"github.com/tainthound/jsflow/internal/pattern"
	"github.com/tainthound/jsflow/internal/sink"
	"github.com/tainthound/jsflow/internal/source"
	"github.com/tainthound/jsflow/internal/solver"
	"github.com/tainthound/jsflow/output"
	"github.com/tainthound/jsflow/taintmodel"
)

// Options configures one analysis run.
type Options struct {
	BenchmarkMode bool
	// Logger, if set, receives per-phase timing and debug output keyed by
	// output.Phase. AnalyzeProject strips the Logger from the per-file options
	// it hands its workers and uses it only for project progress, so per-phase
	// timings are recorded only for a single-file scan.
	Logger *output.Logger
}

// withPhase runs fn timed under phase when logger is non-nil, otherwise
// just runs fn. Pulled out so AnalyzeFile's pipeline reads the same whether
// or not a logger was supplied.
func withPhase(logger *output.Logger, phase output.Phase, fn func()) {
	if logger == nil {
		fn()
		return
	}
	done := logger.TimePhase(phase)
	fn()
	done()
}

// AnalyzeFile runs the full per-file pipeline described in spec.md §4.9:
// parse, source/sink detect, data-flow trace, pattern match, solve and
// infer annotations, then merge every finding through one dedup pass.
// astCache, if non-nil, is consulted before parsing and updated afterward —
// it is never shared across the goroutines AnalyzeProject dispatches, so
// each worker must pass its own instance.
func AnalyzeFile(src []byte, fileName string, opts Options, astCache *cache.ASTCache) taintmodel.AnalysisResult {
	logger := opts.Logger

	var file *astfacade.File
	var parseErrs []astfacade.ParseError
	withPhase(logger, output.PhaseParse, func() {
		file, parseErrs = parseWithCache(astCache, src, fileName)
	})
	if file.Tree == nil {
		msg := "unknown parse failure"
		loc := taintmodel.Location{File: fileName, Line: 1, Column: 1}
		if len(parseErrs) > 0 {
			msg = parseErrs[0].Message
			loc = parseErrs[0].Location
		}
		if logger != nil {
			logger.PhaseDebug(output.PhaseParse, "%s: %s", fileName, msg)
		}
		return taintmodel.AnalysisResult{
			Issues: []taintmodel.Issue{{
				Type:     taintmodel.IssueAnalysisError,
				Severity: taintmodel.SeverityError,
				Message:  "failed to parse: " + msg,
				Location: loc,
			}},
		}
	}

	var sinks []taintmodel.TaintSink
	withPhase(logger, output.PhaseSinkDetect, func() { sinks = sink.Detect(file) })
	sinkKeys := sink.Keys(sinks)

	var sources []taintmodel.TaintSource
	withPhase(logger, output.PhaseSourceDetect, func() { sources = source.Detect(file, sinkKeys) })
	if logger != nil {
		logger.PhaseDebug(output.PhaseSourceDetect, "%s: %d source(s), %d sink(s)", fileName, len(sources), len(sinks))
	}

	var allConstraints []taintmodel.TypeConstraint
	var allInfo map[string]*taintmodel.TypeBasedTaintInfo
	var allStatements []*taintmodel.Statement
	withPhase(logger, output.PhaseConstraintExtract, func() {
		allConstraints, allInfo, allStatements = extractAllFunctions(file, sources)
	})

	var issues []taintmodel.Issue
	dedup := newDedup()

	withPhase(logger, output.PhaseDataFlowTrace, func() {
		for _, s := range sources {
			for _, sk := range sinks {
				path, ok := dataflow.Trace(s, sk, allConstraints, allStatements)
				if !ok {
					continue
				}
				issue := pathToIssue(fileName, path)
				dedup.add(issue)
			}
		}
	})

	withPhase(logger, output.PhasePatternMatch, func() {
		for _, issue := range pattern.Scan(fileName, src, opts.BenchmarkMode) {
			dedup.add(issue)
		}
	})

	var sol solver.Solution
	withPhase(logger, output.PhaseSolve, func() { sol = solver.Solve(allConstraints, allInfo) })
	existing := existingAnnotations(allInfo)

	var infRes annotation.Result
	withPhase(logger, output.PhaseAnnotationInfer, func() {
		infRes = annotation.Infer(sol, existing, sourceConfidenceByVariable(sources), nil)
	})

	annotations := make(map[string]taintmodel.Taint, len(infRes.Annotations))
	for _, a := range infRes.Annotations {
		annotations[a.Variable] = a.Value
	}

	issues = dedup.values()

	if logger != nil {
		logger.PhaseDebug(output.PhaseAnnotationInfer, "%s: %d issue(s), %d annotation(s) inferred", fileName, len(issues), len(infRes.Annotations))
	}

	return taintmodel.AnalysisResult{
		Issues:      issues,
		Annotations: annotations,
		Statistics: taintmodel.Statistics{
			FilesAnalyzed:       1,
			IssuesFound:         len(issues),
			AnnotationsInferred: len(infRes.Annotations),
			AnnotationsExisting: len(existing),
			VariablesTotal:      sol.Total,
		},
	}
}

// parseWithCache checks astCache (if provided) for a previous parse of
// fileName before falling back to astfacade.Parse, storing the result back
// into the cache afterward.
func parseWithCache(astCache *cache.ASTCache, src []byte, fileName string) (*astfacade.File, []astfacade.ParseError) {
	if astCache != nil {
		if f, ok := astCache.Get(fileName); ok {
			return f, nil
		}
	}
	file, errs := astfacade.Parse(src, fileName)
	if astCache != nil && file.Tree != nil {
		astCache.Put(fileName, file)
	}
	return file, errs
}

// extractAllFunctions walks every function-like node in the file and merges
// each one's constraints/info into a single per-file set. Variable names
// are unqualified identifiers, so cross-function collisions are possible
// for common names (e.g. "data"); this mirrors the teacher's
// intra-procedural analysis scope (graph/callgraph/analysis/taint/analyzer.go)
// rather than attempting whole-program symbol resolution.
func extractAllFunctions(file *astfacade.File, sources []taintmodel.TaintSource) ([]taintmodel.TypeConstraint, map[string]*taintmodel.TypeBasedTaintInfo, []*taintmodel.Statement) {
	var constraints []taintmodel.TypeConstraint
	var statements []*taintmodel.Statement
	info := make(map[string]*taintmodel.TypeBasedTaintInfo)
	counter := 0

	file.Visit(func(n *sitter.Node) bool {
		if !astfacade.IsFunctionLike(n) {
			return true
		}
		name := functionName(file, n, &counter)
		ex := constraint.Extract(file, n, name, sources)
		constraints = append(constraints, ex.Constraints...)
		for _, s := range ex.Statements {
			statements = append(statements, s.AllStatements()...)
		}
		for k, v := range ex.Info {
			if _, exists := info[k]; !exists {
				info[k] = v
			}
		}
		return true
	})
	return constraints, info, statements
}

func functionName(file *astfacade.File, n *sitter.Node, counter *int) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return file.Text(name)
	}
	*counter++
	return fmt.Sprintf("anonymous%d", *counter)
}

// existingAnnotations projects the extractor's seeded taint-info map down to
// the variables that carried an explicit JSDoc annotation, so the inferrer
// can tell an "add" suggestion from a contradicting "modify" one.
func existingAnnotations(info map[string]*taintmodel.TypeBasedTaintInfo) map[string]*taintmodel.Annotation {
	out := make(map[string]*taintmodel.Annotation)
	for name, ti := range info {
		if ti.Annotation != nil {
			out[name] = ti.Annotation
		}
	}
	return out
}

func sourceConfidenceByVariable(sources []taintmodel.TaintSource) map[string]float64 {
	out := make(map[string]float64, len(sources))
	for _, s := range sources {
		out[s.VariableName] = s.Confidence
	}
	return out
}

func pathToIssue(fileName string, path taintmodel.DataFlowPath) taintmodel.Issue {
	return taintmodel.Issue{
		Type:             sinkKindToIssueType(path.Sink.Kind),
		Severity:         severityForRisk(path.RiskLevel),
		Message:          fmt.Sprintf("tainted value %q reaches %s via %d step(s)", path.Source.VariableName, path.Sink.DangerousFunction.FunctionName, len(path.Steps)),
		Location:         path.Sink.Location,
		SinkFunctionName: path.Sink.DangerousFunction.FunctionName,
	}
}

func sinkKindToIssueType(k taintmodel.SinkKind) taintmodel.IssueType {
	switch k {
	case taintmodel.SinkSQLInjection:
		return taintmodel.IssueSQLInjection
	case taintmodel.SinkPathTraversal:
		return taintmodel.IssuePathTraversal
	case taintmodel.SinkCommandInjection:
		return taintmodel.IssueCommandInjection
	case taintmodel.SinkXSS:
		return taintmodel.IssueXSS
	case taintmodel.SinkCodeInjection:
		return taintmodel.IssueCodeInjection
	case taintmodel.SinkFileWrite:
		return taintmodel.IssueUnvalidatedInput
	default:
		return taintmodel.IssueTaintFlow
	}
}

func severityForRisk(r taintmodel.RiskLevel) taintmodel.Severity {
	switch r {
	case taintmodel.RiskCritical, taintmodel.RiskHigh:
		return taintmodel.SeverityError
	case taintmodel.RiskMedium:
		return taintmodel.SeverityWarning
	default:
		return taintmodel.SeverityInfo
	}
}

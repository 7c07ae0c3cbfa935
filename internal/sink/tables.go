package sink

import "github.com/tainthound/jsflow/taintmodel"

// callRule recognizes a bare or dotted call expression as a dangerous sink.
// dangerousArg is the zero-based argument position that must be tainted for
// the call to be reportable as a flow; -1 means "any argument qualifies".
type callRule struct {
	names        []string
	receivers    []string // when set, names is matched against the method name and receivers against the object
	dangerousArg int
	kind         taintmodel.SinkKind
	category     string
	riskLevel    taintmodel.RiskLevel
	confidence   float64
}

// Grounded on spec.md §4.3's recognition table and the teacher's
// dsl.CallMatcherIR keyed-pattern style (dsl/call_matcher.go).
var bareRules = []callRule{
	{names: []string{"query", "execute"}, receivers: []string{"db", "connection", "pool", "mysql", "pg", "sqlite"}, dangerousArg: 0, kind: taintmodel.SinkSQLInjection, category: "sql-injection", riskLevel: taintmodel.RiskCritical, confidence: 0.9},
	{names: []string{"query", "execute"}, dangerousArg: 0, kind: taintmodel.SinkSQLInjection, category: "sql-injection", riskLevel: taintmodel.RiskCritical, confidence: 0.9},
	{names: []string{"readFile", "readFileSync", "writeFile", "writeFileSync", "createReadStream", "createWriteStream"}, receivers: []string{"fs"}, dangerousArg: 0, kind: taintmodel.SinkPathTraversal, category: "path-traversal", riskLevel: taintmodel.RiskHigh, confidence: 0.85},
	{names: []string{"exec", "execSync", "spawn", "spawnSync"}, receivers: []string{"child_process", "cp"}, dangerousArg: 0, kind: taintmodel.SinkCommandInjection, category: "command-injection", riskLevel: taintmodel.RiskCritical, confidence: 0.9},
	{names: []string{"send", "write", "end"}, receivers: []string{"res", "response"}, dangerousArg: 0, kind: taintmodel.SinkXSS, category: "xss", riskLevel: taintmodel.RiskMedium, confidence: 0.7},
	{names: []string{"write"}, receivers: []string{"document"}, dangerousArg: 0, kind: taintmodel.SinkXSS, category: "xss", riskLevel: taintmodel.RiskHigh, confidence: 0.8},
	{names: []string{"exec", "execSync", "spawn", "spawnSync"}, dangerousArg: 0, kind: taintmodel.SinkCommandInjection, category: "command-injection", riskLevel: taintmodel.RiskCritical, confidence: 0.95},
	{names: []string{"eval"}, dangerousArg: 0, kind: taintmodel.SinkCodeInjection, category: "code-injection", riskLevel: taintmodel.RiskCritical, confidence: 0.95},
	{names: []string{"writeFile", "writeFileSync"}, dangerousArg: 0, kind: taintmodel.SinkFileWrite, category: "file-write", riskLevel: taintmodel.RiskMedium, confidence: 0.75},
}

// functionConstructorNames recognizes `new Function(...)` as a code-injection
// sink, matched separately since it is a new_expression, not a call_expression.
var functionConstructorNames = []string{"Function"}

// OverlayRule is the config-overlay-facing shape of callRule (see
// config.Overlay): it lets a caller add recognition entries at runtime
// without recompiling, the same extension point spec.md §4.2/4.3 grants the
// recognition tables.
type OverlayRule struct {
	Names        []string
	Receivers    []string
	DangerousArg int
	Kind         taintmodel.SinkKind
	Category     string
	RiskLevel    taintmodel.RiskLevel
	Confidence   float64
}

// RegisterRule appends an overlay-supplied rule to the bare/receiver sink
// table. Intended to be called once, before any Detect call, by
// config.Overlay.Apply.
func RegisterRule(r OverlayRule) {
	bareRules = append(bareRules, callRule{
		names:        r.Names,
		receivers:    r.Receivers,
		dangerousArg: r.DangerousArg,
		kind:         r.Kind,
		category:     r.Category,
		riskLevel:    r.RiskLevel,
		confidence:   r.Confidence,
	})
}

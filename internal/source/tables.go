package source

import "github.com/tainthound/jsflow/taintmodel"

// propertyRule recognizes `object.property` (or `object['property']`)
// access as a taint source, e.g. req.query, req.body.
type propertyRule struct {
	objects     []string
	properties  []string
	category    taintmodel.SourceCategory
	subCategory string
	confidence  float64
}

// functionRule recognizes a bare or dotted call as a taint source, e.g.
// fs.readFileSync(...), fetch(...).
type functionRule struct {
	// names matches against either the bare function name ("fetch") or a
	// "object.method" dotted form ("axios.get"). When hasSyncSuffix is set,
	// a trailing "Sync" on the callee is also accepted.
	names         []string
	hasSyncSuffix bool
	category      taintmodel.SourceCategory
	subCategory   string
	confidence    float64
}

// Grounded on spec.md §4.2's recognition tables, in the same keyed-table
// style as the teacher's dsl.CallMatcherIR (dsl/call_matcher.go).
var propertyRules = []propertyRule{
	{objects: []string{"req", "request"}, properties: []string{"query"}, category: taintmodel.CategoryUserInput, subCategory: "http-request", confidence: 0.9},
	{objects: []string{"req", "request"}, properties: []string{"params"}, category: taintmodel.CategoryUserInput, subCategory: "http-request", confidence: 0.9},
	{objects: []string{"req", "request"}, properties: []string{"body"}, category: taintmodel.CategoryUserInput, subCategory: "http-request", confidence: 0.85},
	{objects: []string{"req", "request"}, properties: []string{"headers"}, category: taintmodel.CategoryUserInput, subCategory: "http-headers", confidence: 0.85},
	{objects: []string{"req", "request"}, properties: []string{"cookies"}, category: taintmodel.CategoryUserInput, subCategory: "http-cookies", confidence: 0.85},
	{objects: []string{"window"}, properties: []string{"location"}, category: taintmodel.CategoryUserInput, subCategory: "browser-location", confidence: 0.9},
	{objects: []string{"document"}, properties: []string{"URL"}, category: taintmodel.CategoryUserInput, subCategory: "browser-url", confidence: 0.85},
	{objects: []string{"document"}, properties: []string{"referrer"}, category: taintmodel.CategoryUserInput, subCategory: "browser-referrer", confidence: 0.85},
	{objects: []string{"process"}, properties: []string{"env"}, category: taintmodel.CategoryEnvironment, subCategory: "env-variables", confidence: 0.75},
}

// standaloneGlobals recognizes bare identifiers with no leading object
// (e.g. `location` used directly rather than `window.location`).
var standaloneGlobals = map[string]propertyRule{
	"location": {category: taintmodel.CategoryUserInput, subCategory: "browser-location", confidence: 0.85},
}

var functionRules = []functionRule{
	{names: []string{"fs.readFile", "fs.readdir", "fs.createReadStream", "readFile", "readdir"}, hasSyncSuffix: true, category: taintmodel.CategoryFileInput, subCategory: "filesystem", confidence: 0.8},
	{names: []string{"fetch", "axios.get", "axios.post", "axios.put", "axios.delete", "axios.patch", "axios.request", "request"}, category: taintmodel.CategoryNetworkInput, subCategory: "http-client", confidence: 0.85},
	{names: []string{"getenv"}, category: taintmodel.CategoryEnvironment, subCategory: "env-variables", confidence: 0.75},
}

// OverlayPropertyRule and OverlayFunctionRule are the config-overlay-facing
// shapes of propertyRule/functionRule (see config.Overlay), letting a caller
// add recognition entries at runtime without recompiling.
type OverlayPropertyRule struct {
	Objects     []string
	Properties  []string
	Category    taintmodel.SourceCategory
	SubCategory string
	Confidence  float64
}

type OverlayFunctionRule struct {
	Names         []string
	HasSyncSuffix bool
	Category      taintmodel.SourceCategory
	SubCategory   string
	Confidence    float64
}

// RegisterPropertyRule appends an overlay-supplied rule to the
// object.property recognition table. Intended to be called once, before any
// Detect call, by config.Overlay.Apply.
func RegisterPropertyRule(r OverlayPropertyRule) {
	propertyRules = append(propertyRules, propertyRule{
		objects:     r.Objects,
		properties:  r.Properties,
		category:    r.Category,
		subCategory: r.SubCategory,
		confidence:  r.Confidence,
	})
}

// RegisterFunctionRule appends an overlay-supplied rule to the bare/dotted
// call recognition table.
func RegisterFunctionRule(r OverlayFunctionRule) {
	functionRules = append(functionRules, functionRule{
		names:         r.Names,
		hasSyncSuffix: r.HasSyncSuffix,
		category:      r.Category,
		subCategory:   r.SubCategory,
		confidence:    r.Confidence,
	})
}

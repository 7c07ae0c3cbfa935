package taintmodel

// IssueType is the closed set of vulnerability/finding categories the
// analyzer can report.
type IssueType string

const (
	IssueSQLInjection          IssueType = "sql-injection"
	IssuePathTraversal         IssueType = "path-traversal"
	IssueCommandInjection      IssueType = "command-injection"
	IssueXSS                   IssueType = "xss"
	IssueCodeInjection         IssueType = "code-injection"
	IssueCryptographicFailure  IssueType = "cryptographic-failure"
	IssueVulnerableDependency  IssueType = "vulnerable-dependency"
	IssueInsecureDesign        IssueType = "insecure-design"
	IssueLoggingFailure        IssueType = "logging-failure"
	IssueAccessControlFailure  IssueType = "access-control-failure"
	IssueSecurityMisconfig     IssueType = "security-misconfiguration"
	IssueAuthenticationFailure IssueType = "authentication-failure"
	IssueDataIntegrityFailure  IssueType = "data-integrity-failure"
	IssueSSRF                  IssueType = "ssrf-vulnerability"
	IssueUnvalidatedInput      IssueType = "unvalidated-input"
	IssueTaintFlow             IssueType = "taint-flow"
	IssueMissingAnnotation     IssueType = "missing-annotation"
	IssueIncompatibleTypes     IssueType = "incompatible-types"
	IssueAnalysisError         IssueType = "analysis-error"
	IssueMultiStepAttack       IssueType = "multi-step-attack"
)

// Severity is the closed set of issue severities.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single reported finding.
type Issue struct {
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Location   Location  `json:"location"`
	Suggestion string    `json:"suggestion,omitempty"`

	// SinkFunctionName participates in the dedup key alongside
	// Location.Line/Column and Type, per spec.
	SinkFunctionName string `json:"-"`
}

// DedupKey is the uniqueness key for issues: (file, sink_line, sink_column,
// issue_type, sink_function_name).
func (i Issue) DedupKey() string {
	return i.Location.String() + "|" + string(i.Type) + "|" + i.SinkFunctionName
}

// Statistics summarizes one file's analysis run.
type Statistics struct {
	FilesAnalyzed       int   `json:"files_analyzed"`
	IssuesFound         int   `json:"issues_found"`
	AnnotationsInferred int   `json:"annotations_inferred"`
	AnnotationsExisting int   `json:"annotations_existing"`
	VariablesTotal      int   `json:"variables_total"`
	AnalysisTimeMS      int64 `json:"analysis_time_ms"`
}

// AnalysisResult is the per-file output of the core analyzer.
type AnalysisResult struct {
	Issues      []Issue           `json:"issues"`
	Annotations map[string]Taint  `json:"annotations"`
	Statistics  Statistics        `json:"statistics"`
	JAIFOutput  string            `json:"jaif_output,omitempty"`
}

// DetectedTaint is one row of the project-level per-type taint summary.
type DetectedTaint struct {
	Type        IssueType `json:"type"`
	Count       int       `json:"count"`
	Severity    RiskLevel `json:"severity"`
	Description string    `json:"description"`
}

// Coverage reports how many variables in a project received an explicit
// annotation versus an inferred one, out of the total variables tracked.
type Coverage struct {
	Annotated int `json:"annotated"`
	Inferred  int `json:"inferred"`
	Total     int `json:"total"`
}

// ProjectAnalysisResult is the aggregate output of a project-wide scan, per
// spec.md §6's external contract.
type ProjectAnalysisResult struct {
	TotalFiles     int               `json:"total_files"`
	AnalyzedFiles  int               `json:"analyzed_files"`
	TotalIssues    int               `json:"total_issues"`
	IssuesByType   map[IssueType]int `json:"issues_by_type"`
	CriticalFiles  []string          `json:"critical_files"`
	Coverage       Coverage          `json:"coverage"`
	AnalysisTimeMS int64             `json:"analysis_time_ms"`
	DetectedTaints []DetectedTaint   `json:"detected_taints"`

	// Issues is the flat, merged finding list backing the aggregate above.
	// Not part of the external contract (omitted from JSON) — callers that
	// want per-file findings for a project scan, such as the CLI's
	// text/SARIF renderers, use this instead of re-running analysis.
	Issues []Issue `json:"-"`
}

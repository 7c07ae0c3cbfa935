package taintmodel

import "strconv"

// SinkKind is the vulnerability class a dangerous operation belongs to.
type SinkKind string

const (
	SinkSQLInjection      SinkKind = "sql-injection"
	SinkPathTraversal     SinkKind = "path-traversal"
	SinkCommandInjection  SinkKind = "command-injection"
	SinkXSS               SinkKind = "xss"
	SinkCodeInjection     SinkKind = "code-injection"
	SinkFileWrite         SinkKind = "file-write"
)

// RiskLevel buckets the severity of a discovered flow.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

// DangerousFunction describes the sink call and which argument position
// matters for taint.
type DangerousFunction struct {
	FunctionName          string   `json:"function_name"`
	ObjectName            string   `json:"object_name,omitempty"`
	Arguments             []string `json:"arguments,omitempty"`
	DangerousParameterIdx int      `json:"dangerous_parameter_index"`
}

// TaintSink is a program point where tainted data would cause a
// vulnerability if it arrived unsanitized.
type TaintSink struct {
	Kind              SinkKind          `json:"kind"`
	Category          string            `json:"category"`
	Location          Location          `json:"location"`
	DangerousFunction DangerousFunction `json:"dangerous_function"`
	RiskLevel         RiskLevel         `json:"risk_level"`
	Confidence        float64           `json:"confidence"`
}

// DedupKey identifies a sink for deduplication.
func (s TaintSink) DedupKey() string {
	return s.Location.File + "|" + strconv.Itoa(s.Location.Line) + "|" + strconv.Itoa(s.Location.Column) + "|" + s.DangerousFunction.FunctionName
}

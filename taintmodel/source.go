package taintmodel

import "strconv"

// SourceCategory is the broad origin class of untrusted data.
type SourceCategory string

const (
	CategoryUserInput    SourceCategory = "user-input"
	CategoryNetworkInput SourceCategory = "network-input"
	CategoryFileInput    SourceCategory = "file-input"
	CategoryEnvironment  SourceCategory = "environment"
	CategoryDatabase     SourceCategory = "database"
)

// APICall describes the call expression a source or sink was recognized
// from.
type APICall struct {
	FunctionName string   `json:"function_name"`
	ObjectName   string   `json:"object_name,omitempty"`
	Arguments    []string `json:"arguments,omitempty"`
}

// TaintSource is a program point that introduces data from an untrusted
// origin. VariableName is the identifier that will hold the untrusted
// value — for a property chain such as req.query.id, that is the nearest
// receiving identifier, never the intermediate object.
type TaintSource struct {
	Category     SourceCategory `json:"category"`
	SubCategory  string         `json:"sub_category"`
	Location     Location       `json:"location"`
	VariableName string         `json:"variable_name"`
	APICall      APICall        `json:"api_call"`
	Confidence   float64        `json:"confidence"`
}

// DedupKey identifies a source for deduplication: file, position, and the
// call that produced it.
func (s TaintSource) DedupKey() string {
	return s.Location.File + "|" + strconv.Itoa(s.Location.Line) + "|" + strconv.Itoa(s.Location.Column) + "|" + s.APICall.FunctionName + "|" + s.APICall.ObjectName
}

package dataflow

import "github.com/tainthound/jsflow/taintmodel"

var sourceScores = map[taintmodel.SourceCategory]int{
	taintmodel.CategoryUserInput:    4,
	taintmodel.CategoryNetworkInput: 3,
	taintmodel.CategoryFileInput:    2,
	taintmodel.CategoryEnvironment:  2,
	taintmodel.CategoryDatabase:     1,
}

var sinkScores = map[taintmodel.SinkKind]int{
	taintmodel.SinkSQLInjection:     4,
	taintmodel.SinkCommandInjection: 4,
	taintmodel.SinkCodeInjection:    4,
	taintmodel.SinkPathTraversal:    3,
	taintmodel.SinkXSS:              3,
	taintmodel.SinkFileWrite:        2,
}

// RiskLevel scores a source/sink pair and the textual spans of the path
// connecting them, returning the bucketed risk level and the sanitization
// penalty actually applied (callers may want the latter for diagnostics).
func RiskLevel(source taintmodel.TaintSource, sinkObj taintmodel.TaintSink, spans []string) (taintmodel.RiskLevel, int) {
	score := sourceScores[source.Category] + sinkScores[sinkObj.Kind] - SanitizationPenalty(spans)
	if score < 1 {
		score = 1
	}
	switch {
	case score >= 8:
		return taintmodel.RiskCritical, score
	case score >= 6:
		return taintmodel.RiskHigh, score
	case score >= 4:
		return taintmodel.RiskMedium, score
	default:
		return taintmodel.RiskLow, score
	}
}

// Confidence combines source and sink confidence, penalized by path length
// and boosted when the path carries annotation support.
func Confidence(source taintmodel.TaintSource, sinkObj taintmodel.TaintSink, stepCount int, annotatedFraction float64) float64 {
	c := (source.Confidence+sinkObj.Confidence)/2 - float64(stepCount)*0.05
	c += annotatedFraction * 0.1
	if c < 0.1 {
		c = 0.1
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}

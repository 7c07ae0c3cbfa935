package dataflow

import (
	"regexp"
	"strings"
)

// sanitizerNames is the table of function names recognized as neutralizing
// taint, consulted through IsSanitizerCall by the constraint solver's
// sanitizing-edge check. SanitizationPenalty does not read it; the tracer's
// risk penalty uses its own fixed patterns below.
var sanitizerNames = []string{
	"sanitize", "sanitizeInput", "clean", "escape", "validate", "filter", "purify",
}

var validatorLibPattern = regexp.MustCompile(`(?i)validator\.\w+`)
var coercionPattern = regexp.MustCompile(`\b(parseInt|parseFloat|Number)\s*\(|\.toString\s*\(`)
var parameterizedQueryPattern = regexp.MustCompile(`\?.*\[`)
var preparedStatementPattern = regexp.MustCompile(`\.prepare\s*\(`)
var earlyReturnPattern = regexp.MustCompile(`return\s+res\.status\(|throw\s+new\s+Error`)
var regexValidationPattern = regexp.MustCompile(`/\^.*\$/|\.test\s*\(|\.match\s*\(`)

// RegisterSanitizerName adds a name to the sanitizer table, letting a config
// overlay teach the solver about a project-specific sanitizer without
// recompiling. The tracer's SanitizationPenalty is not affected.
func RegisterSanitizerName(name string) {
	sanitizerNames = append(sanitizerNames, name)
}

// IsSanitizerCall reports whether name (a bare or dotted call target)
// matches the sanitizer table.
func IsSanitizerCall(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range sanitizerNames {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// SanitizationPenalty scans the textual span between a source and a sink
// (typically the RHS text of the statements along a traced path) for
// recognized validation idioms and returns a penalty capped at 6, per the
// scoring model.
func SanitizationPenalty(spans []string) int {
	penalty := 0
	joined := strings.Join(spans, "\n")

	if validatorLibPattern.MatchString(joined) || strings.Contains(joined, "isNumeric") || strings.Contains(joined, "escape") || strings.Contains(joined, "sanitize") {
		penalty += 2
	}
	if coercionPattern.MatchString(joined) {
		penalty += 1
	}
	if parameterizedQueryPattern.MatchString(joined) || preparedStatementPattern.MatchString(joined) {
		penalty += 2
	}
	if earlyReturnPattern.MatchString(joined) {
		penalty += 1
	}
	if regexValidationPattern.MatchString(joined) {
		penalty += 1
	}
	if penalty > 6 {
		penalty = 6
	}
	return penalty
}

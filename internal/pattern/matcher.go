// Package pattern implements the Pattern Matcher (spec component C8): a
// per-line regex scan for vulnerability categories that don't reduce
// cleanly to an AST-level source/sink pair (weak crypto, vulnerable
// dependency pins, logging hygiene, SSRF, and related OWASP categories).
package pattern

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tainthound/jsflow/taintmodel"
)

// Finding is one pattern-matcher hit, reported at line granularity (this
// matcher has no column precision, since it scans text rather than AST
// nodes).
type Finding struct {
	Line     int
	Category string
	RuleName string
	Text     string
}

var testFileName = regexp.MustCompile(`(?i)(\.|_)(test|spec)\.[jt]sx?$|/(test|tests|sample|samples|doc|docs)/`)
var testFrameworkCall = regexp.MustCompile(`\b(describe|it|test)\s*\(`)
var binaryOrAuxFile = regexp.MustCompile(`(?i)\.(map|min\.js|lock|png|jpg|gif|woff2?)$`)

var blankLine = regexp.MustCompile(`^\s*$`)
var commentLine = regexp.MustCompile(`^\s*(//|/\*|\*)`)
var importLine = regexp.MustCompile(`^\s*(import|export)\b.*\bfrom\b|^\s*const\s+\w+\s*=\s*require\(`)
var typeDeclLine = regexp.MustCompile(`^\s*(interface|type)\s+\w+`)
var loggerCallLine = regexp.MustCompile(`^\s*(logger|log)\.(trace|debug)\(`)

// Scan runs the regex table over source, honoring whole-file and per-line
// skip rules. In benchmarkMode the whole-file skip relaxes to only
// binary/auxiliary files.
func Scan(fileName string, source []byte, benchmarkMode bool) []taintmodel.Issue {
	if skipWholeFile(fileName, source, benchmarkMode) {
		return nil
	}

	lines := strings.Split(string(source), "\n")
	testLineIdx := testFrameworkLines(lines)

	var issues []taintmodel.Issue
	seen := make(map[string]bool)

	for i, line := range lines {
		lineNo := i + 1
		if skipLine(line, i, testLineIdx) {
			continue
		}
		for _, r := range rules {
			if !r.Pattern.MatchString(line) {
				continue
			}
			if len(r.ContextTokens) > 0 && guardedNearby(lines, i, r.ContextTokens) {
				continue
			}
			key := strconv.Itoa(lineNo) + "|" + r.Category
			if seen[key] {
				continue
			}
			seen[key] = true
			issues = append(issues, taintmodel.Issue{
				Type:     categoryToIssueType(r.Category),
				Severity: taintmodel.SeverityWarning,
				Message:  r.Category + ": " + strings.TrimSpace(line),
				Location: taintmodel.Location{File: fileName, Line: lineNo, Column: 1},
			})
		}
	}
	return issues
}

func skipWholeFile(fileName string, source []byte, benchmarkMode bool) bool {
	if benchmarkMode {
		return binaryOrAuxFile.MatchString(filepath.Base(fileName))
	}
	if testFileName.MatchString(fileName) {
		return true
	}
	return looksLikeTestFrameworkFile(source)
}

func looksLikeTestFrameworkFile(source []byte) bool {
	text := string(source)
	return strings.Count(text, "describe(") > 0 && strings.Count(text, "it(") > 2
}

func testFrameworkLines(lines []string) map[int]bool {
	idx := make(map[int]bool)
	for i, l := range lines {
		if testFrameworkCall.MatchString(l) {
			idx[i] = true
		}
	}
	return idx
}

func skipLine(line string, idx int, testLines map[int]bool) bool {
	if blankLine.MatchString(line) || commentLine.MatchString(line) || importLine.MatchString(line) || typeDeclLine.MatchString(line) || loggerCallLine.MatchString(line) {
		return true
	}
	for d := -3; d <= 3; d++ {
		if testLines[idx+d] {
			return true
		}
	}
	return false
}

func guardedNearby(lines []string, idx int, tokens []string) bool {
	for d := -contextWindow; d <= contextWindow; d++ {
		j := idx + d
		if j < 0 || j >= len(lines) {
			continue
		}
		for _, t := range tokens {
			if strings.Contains(lines[j], t) {
				return true
			}
		}
	}
	return false
}

func categoryToIssueType(category string) taintmodel.IssueType {
	switch category {
	case "cryptographic-failure":
		return taintmodel.IssueCryptographicFailure
	case "vulnerable-dependency":
		return taintmodel.IssueVulnerableDependency
	case "insecure-design":
		return taintmodel.IssueInsecureDesign
	case "logging-failure":
		return taintmodel.IssueLoggingFailure
	case "access-control-failure":
		return taintmodel.IssueAccessControlFailure
	case "security-misconfiguration":
		return taintmodel.IssueSecurityMisconfig
	case "authentication-failure":
		return taintmodel.IssueAuthenticationFailure
	case "data-integrity-failure":
		return taintmodel.IssueDataIntegrityFailure
	case "ssrf-vulnerability":
		return taintmodel.IssueSSRF
	default:
		return taintmodel.IssueUnvalidatedInput
	}
}

package pattern

import "regexp"

// Rule is one per-line regex detector. Category feeds the reported issue
// type; findings are merged with AST-derived ones by the orchestrator.
type Rule struct {
	Name     string
	Category string
	Pattern  *regexp.Regexp
	// ContextTokens, if non-empty, suppresses a match when any of these
	// tokens appears within contextWindow lines of the match (used for the
	// access-control and SSRF "guard call nearby" exceptions).
	ContextTokens []string
}

const contextWindow = 2

// Grounded on spec.md §4.8's category table; regex style follows the
// teacher's dsl.CallMatcherIR wildcard patterns (dsl/call_matcher.go) and
// graph/callgraph/analysis/taint/analyzer.go's stdlib name tables.
var rules = []Rule{
	{Name: "weak-hash", Category: "cryptographic-failure", Pattern: regexp.MustCompile(`(?i)\b(md5|sha1|des|rc4|ecb)\b`)},
	{Name: "insecure-random-token", Category: "cryptographic-failure", Pattern: regexp.MustCompile(`Math\.random\(\).*(key|token|secret|password)`)},
	{Name: "secret-over-http", Category: "cryptographic-failure", Pattern: regexp.MustCompile(`http://[^\s"']*\b(token|secret|password|apikey)\b`)},

	{Name: "vulnerable-lodash", Category: "vulnerable-dependency", Pattern: regexp.MustCompile(`require\(['"]lodash@4\.17\.[0-4]['"]\)`)},
	{Name: "vulnerable-express", Category: "vulnerable-dependency", Pattern: regexp.MustCompile(`require\(['"]express@[23]\.['"]`)},
	{Name: "vulnerable-minimist", Category: "vulnerable-dependency", Pattern: regexp.MustCompile(`require\(['"]minimist@0\.0\.[0-8]['"]\)`)},

	{Name: "unparameterized-id-query", Category: "insecure-design", Pattern: regexp.MustCompile(`(SELECT|INSERT|UPDATE|DELETE).*\$\{?\s*req\.(params|query)`)},
	{Name: "debug-secret-log", Category: "insecure-design", Pattern: regexp.MustCompile(`console\.(log|debug)\([^)]*\b(password|secret|token)\b`)},

	{Name: "logger-with-request-data", Category: "logging-failure", Pattern: regexp.MustCompile(`(logger|log)\.(info|warn|error|debug)\([^)]*req\.`)},
	{Name: "newline-in-log", Category: "logging-failure", Pattern: regexp.MustCompile(`(logger|log)\.\w+\([^)]*\\n`)},

	{Name: "filesystem-from-request", Category: "access-control-failure", Pattern: regexp.MustCompile(`\.(sendFile|readFile|writeFile)\([^)]*req\.`), ContextTokens: []string{"isAuthenticated", "requireAuth", "authorize", "verified", "protected"}},
	{Name: "role-from-request", Category: "access-control-failure", Pattern: regexp.MustCompile(`\brole\s*=\s*req\.(body|query|params)`), ContextTokens: []string{"isAuthenticated", "requireAuth", "authorize", "verified", "protected"}},

	{Name: "wildcard-cors", Category: "security-misconfiguration", Pattern: regexp.MustCompile(`Access-Control-Allow-Origin['"]?\s*[:,]\s*['"]\*['"]`)},
	{Name: "hardcoded-admin-credential", Category: "security-misconfiguration", Pattern: regexp.MustCompile(`(?i)(admin_password|admin_secret)\s*=\s*['"][^'"]+['"]`)},
	{Name: "error-echoed-to-response", Category: "security-misconfiguration", Pattern: regexp.MustCompile(`res\.(send|json)\(\s*err(or)?\s*[,)]`)},

	{Name: "weak-password-literal", Category: "authentication-failure", Pattern: regexp.MustCompile(`(?i)password\s*===?\s*['"].{1,7}['"]`)},
	{Name: "random-token-string", Category: "authentication-failure", Pattern: regexp.MustCompile(`Math\.random\(\)\.toString\(`)},

	{Name: "json-parse-request-data", Category: "data-integrity-failure", Pattern: regexp.MustCompile(`JSON\.parse\(\s*(rawData|reqData)\b`)},
	{Name: "eval-user-code", Category: "data-integrity-failure", Pattern: regexp.MustCompile(`eval\(\s*userCode\b`)},

	{Name: "internal-ip-literal", Category: "ssrf-vulnerability", Pattern: regexp.MustCompile(`\b(127\.0\.0\.1|10\.\d+\.\d+\.\d+|169\.254\.\d+\.\d+|192\.168\.\d+\.\d+)\b`)},
	{Name: "dangerous-scheme", Category: "ssrf-vulnerability", Pattern: regexp.MustCompile(`\b(file|gopher|dict)://`)},
	{Name: "unvalidated-request-fetch", Category: "ssrf-vulnerability", Pattern: regexp.MustCompile(`(fetch|axios|http\.get|https\.get)\([^)]*req\.`), ContextTokens: []string{"validateUrl", "isAllowedDomain", "urlWhitelist", "trustedDomain", "trusted_domain"}},
}

// Package rules holds the pattern tables shared by the detectors. The tables
// are read-only after start-up; custom secret rules can be appended from a
// YAML file with LoadFile.
package rules

import "github.com/codeshield/codeshield/internal/types"

// Version identifies the built-in pattern set. Bump it whenever a pattern,
// severity or recommendation below changes.
const Version = "2025.10.1"

// SecretRule describes one hardcoded-secret pattern. When Pattern has a
// capture group the first group is the secret value, otherwise the whole
// match is.
type SecretRule struct {
	ID              string         `yaml:"id"`
	Name            string         `yaml:"name"`
	Pattern         string         `yaml:"pattern"`
	Severity        types.Severity `yaml:"-"`
	Description     string         `yaml:"description"`
	EnvVar          string         `yaml:"env_var"`
	Recommendation  string         `yaml:"recommendation"`
	CommentTolerant bool           `yaml:"comment_tolerant"`
}

// DefaultSecretRecommendation applies to secret rules without their own.
const DefaultSecretRecommendation = "Move this value out of source code into an environment variable or secret manager, then rotate it."

// Secrets returns the built-in secret table, most specific rules first so a
// vendor rule claims a value before the generic assignment rules see it.
func Secrets() []SecretRule {
	out := make([]SecretRule, len(secretTable))
	copy(out, secretTable)
	return out
}

var secretTable = []SecretRule{
	{ID: "aws_access_key_id", Name: "AWS Access Key", Pattern: `\b(AKIA[0-9A-Z]{16})\b`, Severity: types.SevCritical,
		Description: "AWS access key ID", EnvVar: "AWS_ACCESS_KEY_ID"},
	{ID: "aws_access_key_assignment", Name: "AWS Access Key", Pattern: `(?i)aws[_-]?access[_-]?key[_-]?id["']?\s*[:=]\s*["']([^"']+)["']`, Severity: types.SevCritical,
		Description: "AWS access key ID", EnvVar: "AWS_ACCESS_KEY_ID"},
	{ID: "aws_secret_access_key", Name: "AWS Secret Key", Pattern: `(?i)aws[_-]?secret[_-]?access[_-]?key["']?\s*[:=]\s*["']([^"']+)["']`, Severity: types.SevCritical,
		Description: "AWS secret access key", EnvVar: "AWS_SECRET_ACCESS_KEY"},
	{ID: "github_token", Name: "GitHub Token", Pattern: `\b((?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{36})\b`, Severity: types.SevCritical,
		Description: "GitHub token", EnvVar: "GITHUB_TOKEN"},
	{ID: "github_token_assignment", Name: "GitHub Token", Pattern: `(?i)github[_-]?token["']?\s*[:=]\s*["']([^"']+)["']`, Severity: types.SevCritical,
		Description: "GitHub token", EnvVar: "GITHUB_TOKEN"},
	{ID: "stripe_secret_key", Name: "Stripe Key", Pattern: `\b((?:sk|rk)_live_[A-Za-z0-9]{24,})`, Severity: types.SevCritical,
		Description: "Stripe secret key", EnvVar: "STRIPE_SECRET_KEY"},
	{ID: "stripe_publishable_key", Name: "Stripe Key", Pattern: `\b(pk_live_[A-Za-z0-9]{24,})`, Severity: types.SevHigh,
		Description: "Stripe publishable key", EnvVar: "STRIPE_PUBLISHABLE_KEY"},
	{ID: "openai_api_key", Name: "OpenAI API Key", Pattern: `\b(sk-(?:proj-)?[A-Za-z0-9_-]{40,})`, Severity: types.SevCritical,
		Description: "OpenAI API key", EnvVar: "OPENAI_API_KEY"},
	{ID: "openai_key_assignment", Name: "OpenAI API Key", Pattern: `(?i)openai[_-]?api[_-]?key["']?\s*[:=]\s*["']([^"']+)["']`, Severity: types.SevCritical,
		Description: "OpenAI API key", EnvVar: "OPENAI_API_KEY"},
	{ID: "google_api_key", Name: "Google API Key", Pattern: `\b(AIza[0-9A-Za-z_-]{35})`, Severity: types.SevCritical,
		Description: "Google API key", EnvVar: "GOOGLE_API_KEY"},
	{ID: "slack_token", Name: "Slack Token", Pattern: `\b(xox[baprs]-[0-9A-Za-z-]{10,})`, Severity: types.SevCritical,
		Description: "Slack token", EnvVar: "SLACK_TOKEN"},
	{ID: "private_key", Name: "Private Key", Pattern: `-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP |ENCRYPTED )?PRIVATE KEY(?: BLOCK)?-----`, Severity: types.SevCritical,
		Description: "private key", EnvVar: "PRIVATE_KEY_PATH",
		Recommendation: "Remove the key from the repository, load it from a file outside version control and issue a new key pair."},
	{ID: "database_url", Name: "Database URL", Pattern: `\b((?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^\s:@/"']+:[^\s@/"']+@[^\s"']+)`, Severity: types.SevCritical,
		Description: "database connection string with credentials", EnvVar: "DATABASE_URL"},
	{ID: "generic_password", Name: "Password", Pattern: `(?i)(?:password|passwd|pwd)["']?\s*[:=]\s*["']([^"']{3,})["']`, Severity: types.SevCritical,
		Description: "password", EnvVar: "PASSWORD"},
	{ID: "generic_api_key", Name: "API Key", Pattern: `(?i)api[_-]?key["']?\s*[:=]\s*["']([^"']{10,})["']`, Severity: types.SevCritical,
		Description: "API key", EnvVar: "API_KEY"},
	{ID: "generic_secret", Name: "Secret", Pattern: `(?i)secret(?:[_-]?key)?["']?\s*[:=]\s*["']([^"']{10,})["']`, Severity: types.SevCritical,
		Description: "secret key", EnvVar: "SECRET_KEY"},
	{ID: "generic_token", Name: "Token", Pattern: `(?i)(?:auth[_-]?)?token["']?\s*[:=]\s*["']([^"']{10,})["']`, Severity: types.SevCritical,
		Description: "auth token", EnvVar: "AUTH_TOKEN"},
	{ID: "jwt", Name: "JWT", Pattern: `\b(eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,})`, Severity: types.SevHigh,
		Description: "JSON Web Token", EnvVar: "JWT_TOKEN"},
}

// FalsePositiveMarkers suppress a secret when the value or its line contains
// any of them, compared case-insensitively.
var FalsePositiveMarkers = []string{
	"example", "sample", "test", "dummy", "fake", "placeholder",
	"your_", "xxx", "123456", "changeme", "todo", "fixme", "replace_me",
}

// DangerousFunction is a dynamic-execution builtin reported when called.
type DangerousFunction struct {
	Name           string
	Recommendation string
}

// DangerousFunctions are matched as `\bname\s*\(`.
var DangerousFunctions = []DangerousFunction{
	{Name: "eval", Recommendation: "Avoid eval(). Use ast.literal_eval() for literals or a dedicated parser for expressions."},
	{Name: "exec", Recommendation: "Avoid exec(). Restructure the code so no dynamically built source is executed."},
	{Name: "compile", Recommendation: "Avoid compiling code built from user input; validate or whitelist the source first."},
	{Name: "__import__", Recommendation: "Use importlib.import_module() with a whitelist of allowed module names."},
	{Name: "execfile", Recommendation: "Avoid execfile(). Import the module instead of executing arbitrary files."},
	{Name: "input", Recommendation: "Validate and sanitize input() values before using them; never pass them to eval or exec."},
}

// DangerousFallbackRecommendation applies to names missing a dedicated entry.
const DangerousFallbackRecommendation = "Review this function usage carefully and ensure input is validated."

// SQLKeywords gate the SQL-injection detector on the upper-cased line.
var SQLKeywords = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "EXEC"}

// LinePattern is one alternative in a first-match-wins chain.
type LinePattern struct {
	ID      string
	Pattern string
	Message string
}

const dml = `(?:SELECT|INSERT|UPDATE|DELETE|DROP)`

// SQLPatterns are tried in order; the first match is the only finding on a line.
var SQLPatterns = []LinePattern{
	{ID: "sql-concatenation", Pattern: `(?i)["'].*?` + dml + `.*?["'].*?\+`,
		Message: "Potential SQL injection: query built with string concatenation"},
	{ID: "sql-format-placeholder", Pattern: `(?i)["'].*?` + dml + `.*?%[sd]`,
		Message: "Potential SQL injection: query built with %-formatting"},
	{ID: "sql-interpolation", Pattern: `(?i)(?:\bf["'].*?` + dml + `.*?\{|` + "`" + `.*?` + dml + `.*?\$\{|["'].*?` + dml + `.*?#\{)`,
		Message: "Potential SQL injection: query built with string interpolation"},
	{ID: "sql-format-call", Pattern: `(?i)["'].*?` + dml + `.*?["'].*?\.format\(`,
		Message: "Potential SQL injection: query built with .format()"},
}

// SQLRecommendation is shared by every SQL-injection finding.
const SQLRecommendation = "Use parameterized queries: cursor.execute(\"SELECT * FROM users WHERE id = %s\", (user_id,))"

// XSSGate must match before the gated XSS patterns are tried.
const XSSGate = `<[a-zA-Z]+[^>]*>`

// XSSPatterns are tried in order. Gated ones require XSSGate; the rest stand
// alone and only run when no gated pattern matched.
var XSSPatterns = []struct {
	LinePattern
	Gated    bool
	Contains [][]string // every group needs one hit in the lower-cased line
}{
	{LinePattern: LinePattern{ID: "xss-interpolation",
		Pattern: `(?:\bf"[^"]*<[a-zA-Z][^"]*\{[^}]*\}|\bf'[^']*<[a-zA-Z][^']*\{[^}]*\}|` + "`[^`]*<[a-zA-Z][^`]*\\$\\{[^}]*\\}" + `)`,
		Message: "Potential XSS: user data interpolated into HTML"}, Gated: true},
	{LinePattern: LinePattern{ID: "xss-format-placeholder",
		Pattern: `(?:"[^"]*<[a-zA-Z][^"]*|'[^']*<[a-zA-Z][^']*)%(?:[sd]|\(\w+\)s)`,
		Message: "Potential XSS: HTML built with %-formatting"}, Gated: true},
	{LinePattern: LinePattern{ID: "xss-format-call",
		Pattern: `(?:"[^"]*<[a-zA-Z][^"]*\{\}[^"]*"|'[^']*<[a-zA-Z][^']*\{\}[^']*')\s*\.format\(`,
		Message: "Potential XSS: HTML built with .format()"}, Gated: true},
	{LinePattern: LinePattern{ID: "xss-concatenation",
		Pattern: `(?:"[^"]*<[^"]*"\s*\+|'[^']*<[^']*'\s*\+|\+\s*["'][^"']*<)`,
		Message: "Potential XSS: HTML built with string concatenation"}, Gated: true,
		Contains: [][]string{{">"}, {"html"}}},
	{LinePattern: LinePattern{ID: "xss-template-injection",
		Pattern: `render_template_string\s*\(`,
		Message: "Potential XSS / template injection: user data rendered through render_template_string"},
		Contains: [][]string{{"{", "%"}}},
	{LinePattern: LinePattern{ID: "xss-raw-response",
		Pattern: `HttpResponse\s*\(`,
		Message: "Potential XSS: unescaped HTML returned in HttpResponse"},
		Contains: [][]string{{"+", "%", "format", `f"`, "f'"}, {"<", "html"}}},
}

// XSSRecommendation is shared by every XSS finding.
const XSSRecommendation = "Escape user input before rendering (html.escape / markupsafe.escape) or use a template engine with auto-escaping."

package types

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevCritical Severity = "CRITICAL"
	SevHigh     Severity = "HIGH"
	SevMedium   Severity = "MEDIUM"
	SevLow      Severity = "LOW"
)

// Severities lists every severity in report order, most severe first.
var Severities = []Severity{SevCritical, SevHigh, SevMedium, SevLow}

// Rank orders severities; unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 4
	case SevHigh:
		return 3
	case SevMedium:
		return 2
	case SevLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity accepts any casing and the "moderate" alias.
func ParseSeverity(v string) (Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "CRITICAL":
		return SevCritical, true
	case "HIGH":
		return SevHigh, true
	case "MEDIUM", "MODERATE":
		return SevMedium, true
	case "LOW":
		return SevLow, true
	default:
		return "", false
	}
}

// Category groups findings by the kind of weakness they describe.
type Category string

const (
	CatDangerousFunction Category = "dangerous-function"
	CatSQLInjection      Category = "sql-injection"
	CatXSS               Category = "xss"
	CatSecret            Category = "secret"
)

// AutofixSuggestion is remediation guidance attached to secret findings.
type AutofixSuggestion struct {
	Issue      string   `json:"issue"`
	Risk       string   `json:"risk"`
	Language   string   `json:"language"`
	Steps      []string `json:"steps"`
	FixCode    string   `json:"fix_code"`
	EnvExample string   `json:"env_example"`
}

// Finding is a single issue at a file and line. Findings are treated as
// values; nothing mutates one after a detector has produced it.
type Finding struct {
	File           string             `json:"file"`
	Line           int                `json:"line"`
	Column         int                `json:"column,omitempty"` // 1-based, 0 if unknown
	Severity       Severity           `json:"severity"`
	Category       Category           `json:"category"`
	Rule           string             `json:"rule"`
	Message        string             `json:"message"`
	CodeSnippet    string             `json:"code_snippet"`
	Recommendation string             `json:"recommendation"`
	MaskedValue    string             `json:"masked_value,omitempty"`
	Autofix        *AutofixSuggestion `json:"autofix,omitempty"`
}

// Fingerprint is a stable key for baselines. It never includes raw secret
// material since the snippet is already masked.
func (f Finding) Fingerprint() string {
	key := f.File + "|" + string(f.Category) + "|" + f.Rule + "|" + strconv.Itoa(f.Line) + "|" + f.CodeSnippet
	return strconv.FormatUint(xxhash.Sum64String(key), 16)
}
